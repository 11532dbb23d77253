package collection

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/inodb/annograph/internal/fileio"
	"github.com/inodb/annograph/internal/readme"
)

// FileKind identifies the role of a file in a collection directory.
type FileKind string

const (
	KindReadme       FileKind = "readme"
	KindGFF3         FileKind = "gff3"
	KindProtein      FileKind = "protein_fasta"
	KindCDS          FileKind = "cds_fasta"
	KindTranscript   FileKind = "mrna_fasta"
	KindGeneFamilies FileKind = "gene_families"
	KindPathways     FileKind = "pathways"
	KindOntology     FileKind = "ontology"
)

// loadOrder is the fixed processing order. GFF3 comes before the files that
// refer to its entities.
var loadOrder = []FileKind{
	KindGFF3, KindProtein, KindCDS, KindTranscript,
	KindGeneFamilies, KindPathways, KindOntology,
}

// Classify returns the kind of a collection file from its name. Gzip
// compression is ignored.
func Classify(name string) (FileKind, bool) {
	base := filepath.Base(name)
	if readme.IsReadme(base) {
		return KindReadme, true
	}
	base = fileio.TrimGzip(base)

	switch {
	case strings.HasSuffix(base, ".gff3"):
		return KindGFF3, true
	case strings.HasSuffix(base, ".faa") && strings.Contains(base, ".protein"):
		return KindProtein, true
	case strings.HasSuffix(base, ".fna") && strings.Contains(base, ".cds"):
		return KindCDS, true
	case strings.HasSuffix(base, ".fna") && strings.Contains(base, ".mrna"):
		return KindTranscript, true
	case strings.HasSuffix(base, ".tsv") && strings.Contains(base, ".gfa."):
		return KindGeneFamilies, true
	case strings.HasSuffix(base, ".tsv") && strings.Contains(base, ".pathway"):
		return KindPathways, true
	case strings.HasSuffix(base, ".tsv") && strings.Contains(base, ".ontology"):
		return KindOntology, true
	}
	return "", false
}

// File is a classified collection file.
type File struct {
	Path string
	Kind FileKind
}

// plan orders files for loading: by kind in loadOrder, then by name.
func plan(files []File) []File {
	rank := make(map[FileKind]int, len(loadOrder))
	for i, k := range loadOrder {
		rank[k] = i
	}
	out := make([]File, 0, len(files))
	for _, f := range files {
		if _, ok := rank[f.Kind]; ok {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return rank[out[i].Kind] < rank[out[j].Kind]
		}
		return out[i].Path < out[j].Path
	})
	return out
}
