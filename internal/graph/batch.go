package graph

// Batch is the finished entity set of one collection, grouped by kind.
type Batch struct {
	Collection    string
	Regions       []*SequenceRegion
	Genes         []*Gene
	Transcripts   []*Transcript
	CodingRegions []*CodingRegion
	Features      []*Feature
	Proteins      []*Protein
	Terms         []*OntologyTerm
	Annotations   []*OntologyAnnotation
	Domains       []*ProteinDomain
	Families      []*GeneFamily
	Assignments   []*GeneFamilyAssignment
	Pathways      []*Pathway
	Publications  []*Publication
	Sources       []DataSource
}

// Batch exports the registry contents.
func (r *Registry) Batch(collection string) *Batch {
	return &Batch{
		Collection:    collection,
		Regions:       r.Regions.All(),
		Genes:         r.Genes.All(),
		Transcripts:   r.Transcripts.All(),
		CodingRegions: r.CodingRegions.All(),
		Features:      r.Features.All(),
		Proteins:      r.Proteins.All(),
		Terms:         r.Terms.All(),
		Annotations:   r.Annotations,
		Domains:       r.Domains.All(),
		Families:      r.Families.All(),
		Assignments:   r.Assignments,
		Pathways:      r.Pathways.All(),
		Publications:  r.Publications.All(),
		Sources:       r.Sources,
	}
}

// Counts returns the number of entities per kind, keyed by table name.
func (b *Batch) Counts() map[string]int {
	return map[string]int{
		"regions":        len(b.Regions),
		"genes":          len(b.Genes),
		"transcripts":    len(b.Transcripts),
		"coding_regions": len(b.CodingRegions),
		"features":       len(b.Features),
		"proteins":       len(b.Proteins),
		"ontology_terms": len(b.Terms),
		"annotations":    len(b.Annotations),
		"domains":        len(b.Domains),
		"families":       len(b.Families),
		"assignments":    len(b.Assignments),
		"pathways":       len(b.Pathways),
		"publications":   len(b.Publications),
		"sources":        len(b.Sources),
	}
}
