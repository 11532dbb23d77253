// Package readme reads the YAML README that describes an annotation collection.
package readme

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inodb/annograph/internal/fileio"
	"github.com/inodb/annograph/internal/graph"
	"github.com/inodb/annograph/internal/ident"
)

// Readme is the collection metadata.
type Readme struct {
	Identifier           string   `yaml:"identifier"`
	ScientificName       string   `yaml:"scientific_name"`
	ScientificNameAbbrev string   `yaml:"scientific_name_abbrev"`
	TaxID                int      `yaml:"taxid"`
	Genotype             []string `yaml:"genotype"`
	Synopsis             string   `yaml:"synopsis"`
	Description          string   `yaml:"description"`
	PublicationDOI       string   `yaml:"publication_doi"`
	PublicationTitle     string   `yaml:"publication_title"`
	DatasetDOI           string   `yaml:"dataset_doi"`
}

// Context returns the identifier scope of the collection.
func (r *Readme) Context() (ident.Context, error) {
	return ident.ParseCollection(r.Identifier)
}

// Publication returns the collection's publication, or nil if none is listed.
func (r *Readme) Publication() *graph.Publication {
	if r.PublicationDOI == "" {
		return nil
	}
	return &graph.Publication{DOI: r.PublicationDOI, Title: r.PublicationTitle}
}

// Load reads a README file. Gzipped files are accepted.
func Load(path string) (*Readme, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open README: %w", err)
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes README YAML and checks that an identifier is present.
func Parse(r io.Reader) (*Readme, error) {
	var rd Readme
	if err := yaml.NewDecoder(r).Decode(&rd); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parse README: empty document")
		}
		return nil, fmt.Errorf("parse README: %w", err)
	}
	rd.Identifier = strings.TrimSpace(rd.Identifier)
	if rd.Identifier == "" {
		return nil, fmt.Errorf("parse README: %w", graph.ErrMissingIdentifier)
	}
	if _, err := rd.Context(); err != nil {
		return nil, fmt.Errorf("parse README: %w", err)
	}
	return &rd, nil
}

// IsReadme reports whether a file name looks like a collection README.
func IsReadme(name string) bool {
	name = fileio.TrimGzip(name)
	return strings.HasPrefix(name, "README.") && (strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml"))
}
