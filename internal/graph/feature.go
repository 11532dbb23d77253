// Package graph holds the entity model, the feature registry and the
// coordinate aggregation used to assemble a collection's feature graph.
package graph

import "fmt"

// Kind is the entity kind a GFF3 feature type maps to.
type Kind int

const (
	KindGene Kind = iota
	KindTranscript
	KindCodingRegion
	KindExon
	KindUTR
	KindGeneric
)

var kindNames = [...]string{"gene", "transcript", "coding_region", "exon", "utr", "feature"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Annotatable is the publication and ontology capability shared by genes,
// transcripts, proteins and other annotated entities.
type Annotatable struct {
	Publications        []*Publication
	OntologyAnnotations []*OntologyAnnotation
}

// AddPublication adds p unless it is already present.
func (a *Annotatable) AddPublication(p *Publication) {
	for _, existing := range a.Publications {
		if existing == p {
			return
		}
	}
	a.Publications = append(a.Publications, p)
}

// annotation returns the annotation for term, or nil.
func (a *Annotatable) annotation(term *OntologyTerm) *OntologyAnnotation {
	for _, oa := range a.OntologyAnnotations {
		if oa.Term == term {
			return oa
		}
	}
	return nil
}

// Feature is the common part of every located annotation entity.
type Feature struct {
	ID          string // primary identifier, never changes
	SecondaryID string // local name
	Kind        Kind
	Type        string // SO term from the GFF3 type column
	Assembly    string
	Annotation  string
	Length      int64 // 0 when unknown
	Name        string
	Description string
	Location    *Location
	Parents     []*Feature
	Children    []*Feature
	Annotatable
}

// AddChild links c below f. Linking the same pair twice is a no-op.
func (f *Feature) AddChild(c *Feature) {
	for _, existing := range f.Children {
		if existing == c {
			return
		}
	}
	f.Children = append(f.Children, c)
	c.Parents = append(c.Parents, f)
}

// Place sets the feature's location, or widens it when the feature is seen
// again. A feature cannot move to another sequence region.
func (f *Feature) Place(loc Location) error {
	if f.Location == nil {
		l := loc
		f.Location = &l
		return nil
	}
	if f.Location.Region != loc.Region {
		return fmt.Errorf("%w: %s on %s and %s", ErrRegionConflict, f.ID, f.Location.Region.ID, loc.Region.ID)
	}
	f.Location.expand(loc)
	return nil
}

// DisplayName returns Name, falling back to the secondary identifier.
func (f *Feature) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.SecondaryID
}
