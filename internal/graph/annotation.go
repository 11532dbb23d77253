package graph

import (
	"strings"
	"time"
)

// TermKind distinguishes Gene Ontology terms from other ontologies.
type TermKind int8

const (
	TermOther TermKind = iota
	TermGO
)

func (k TermKind) String() string {
	if k == TermGO {
		return "go"
	}
	return "ontology"
}

// OntologyTerm is deduplicated by its raw identifier (e.g. "GO:0005634").
type OntologyTerm struct {
	ID   string
	Kind TermKind
}

// NewOntologyTerm creates a term, choosing TermGO for "GO:" identifiers.
func NewOntologyTerm(id string) *OntologyTerm {
	kind := TermOther
	if strings.HasPrefix(id, "GO:") {
		kind = TermGO
	}
	return &OntologyTerm{ID: id, Kind: kind}
}

// OntologyAnnotation ties a subject entity to an ontology term.
type OntologyAnnotation struct {
	SubjectID string
	Term      *OntologyTerm
}

// ProteinDomain is a protein domain (e.g. an InterPro entry) attached to genes.
type ProteinDomain struct {
	ID string
}

// Protein is a translated product, joined from protein FASTA by identifier.
type Protein struct {
	ID          string
	SecondaryID string
	Length      int64
	MD5         string
	Residues    string
	Transcript  *Transcript
	Gene        *Gene
	Annotatable
}

// GeneFamily is a gene family from a family assignment table.
type GeneFamily struct {
	ID string
}

// GeneFamilyAssignment places a gene in a family.
type GeneFamilyAssignment struct {
	Gene   *Gene
	Family *GeneFamily
	Score  *float64 // nil when the table carries no score
}

// Pathway is a metabolic or signalling pathway genes are assigned to.
type Pathway struct {
	ID   string
	Name string
}

// Publication is the publication a collection was described in.
type Publication struct {
	DOI   string
	Title string
}

// DataSource records one ingested file.
type DataSource struct {
	Path    string
	Kind    string
	Size    int64
	ModTime time.Time
}
