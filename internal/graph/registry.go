package graph

// Table is an identifier-keyed store of one entity kind. Entities are kept in
// insertion order so exports are deterministic.
type Table[T any] struct {
	items map[string]*T
	order []string
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{items: make(map[string]*T)}
}

// GetOrCreate returns the entity stored under id, creating it with init if
// absent. The boolean reports whether init ran.
func (t *Table[T]) GetOrCreate(id string, init func(id string) *T) (*T, bool) {
	if v, ok := t.items[id]; ok {
		return v, false
	}
	v := init(id)
	t.items[id] = v
	t.order = append(t.order, id)
	return v, true
}

// Get returns the entity stored under id. It never creates.
func (t *Table[T]) Get(id string) (*T, bool) {
	v, ok := t.items[id]
	return v, ok
}

// Len returns the number of stored entities.
func (t *Table[T]) Len() int {
	return len(t.order)
}

// All returns the entities in insertion order.
func (t *Table[T]) All() []*T {
	out := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.items[id])
	}
	return out
}

// Registry holds every in-progress entity of one collection, segregated by
// kind because the same identifier may legitimately name a transcript and its
// coding region.
type Registry struct {
	Regions       *Table[SequenceRegion]
	Genes         *Table[Gene]
	Transcripts   *Table[Transcript]
	CodingRegions *Table[CodingRegion]
	Features      *Table[Feature] // exons, UTRs and other features
	Proteins      *Table[Protein]
	Terms         *Table[OntologyTerm]
	Domains       *Table[ProteinDomain]
	Families      *Table[GeneFamily]
	Pathways      *Table[Pathway]
	Publications  *Table[Publication]

	Annotations []*OntologyAnnotation
	Assignments []*GeneFamilyAssignment
	Sources     []DataSource

	finalized bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Regions:       NewTable[SequenceRegion](),
		Genes:         NewTable[Gene](),
		Transcripts:   NewTable[Transcript](),
		CodingRegions: NewTable[CodingRegion](),
		Features:      NewTable[Feature](),
		Proteins:      NewTable[Protein](),
		Terms:         NewTable[OntologyTerm](),
		Domains:       NewTable[ProteinDomain](),
		Families:      NewTable[GeneFamily](),
		Pathways:      NewTable[Pathway](),
		Publications:  NewTable[Publication](),
	}
}

// CheckOpen returns ErrFinalized once the registry has been sealed.
func (r *Registry) CheckOpen() error {
	if r.finalized {
		return ErrFinalized
	}
	return nil
}

// Seal marks the registry finalized. Later mutations through the processor
// and linker fail with ErrFinalized.
func (r *Registry) Seal() {
	r.finalized = true
}

// Finalized reports whether Seal has been called.
func (r *Registry) Finalized() bool {
	return r.finalized
}

// Node looks id up among genes, transcripts and other features, in that
// order. Coding regions are not parents of anything and are not searched.
func (r *Registry) Node(id string) (*Feature, bool) {
	if g, ok := r.Genes.Get(id); ok {
		return &g.Feature, true
	}
	if t, ok := r.Transcripts.Get(id); ok {
		return &t.Feature, true
	}
	if f, ok := r.Features.Get(id); ok {
		return f, true
	}
	return nil, false
}

// ExtendCodingRegion adds a fragment to the coding region stored under key,
// creating it with init on first use.
func (r *Registry) ExtendCodingRegion(key string, seg Location, init func(id string) *CodingRegion) *CodingRegion {
	cr, _ := r.CodingRegions.GetOrCreate(key, init)
	cr.Extend(seg)
	return cr
}

// Annotate attaches the ontology term termID to the subject. Terms are shared
// across subjects; a subject is annotated with a given term at most once.
func (r *Registry) Annotate(subjectID string, subject *Annotatable, termID string) *OntologyAnnotation {
	term, _ := r.Terms.GetOrCreate(termID, NewOntologyTerm)
	if oa := subject.annotation(term); oa != nil {
		return oa
	}
	oa := &OntologyAnnotation{SubjectID: subjectID, Term: term}
	subject.OntologyAnnotations = append(subject.OntologyAnnotations, oa)
	r.Annotations = append(r.Annotations, oa)
	return oa
}

// AddSource records an ingested file.
func (r *Registry) AddSource(ds DataSource) {
	r.Sources = append(r.Sources, ds)
}
