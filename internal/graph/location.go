package graph

// RegionKind distinguishes chromosomes from supercontigs.
type RegionKind int8

const (
	Chromosome RegionKind = iota
	Supercontig
)

func (k RegionKind) String() string {
	if k == Supercontig {
		return "supercontig"
	}
	return "chromosome"
}

// SequenceRegion is a top-level assembly unit features are located on.
type SequenceRegion struct {
	ID   string // raw seqid
	Kind RegionKind
}

// Location is an interval on a sequence region.
type Location struct {
	Region *SequenceRegion
	Start  int64 // 1-based, Start <= End
	End    int64 // 1-based, inclusive
	Strand int8  // +1, -1, or 0 when unstranded
}

// NewLocation returns a strand-normalized location with Start <= End.
func NewLocation(region *SequenceRegion, start, end int64, strand int8) Location {
	if start > end {
		start, end = end, start
	}
	return Location{Region: region, Start: start, End: end, Strand: strand}
}

// Width returns the number of bases covered by the location.
func (l Location) Width() int64 {
	return l.End - l.Start + 1
}

// expand grows l to cover o. Region and strand are left as they are.
func (l *Location) expand(o Location) {
	if o.Start < l.Start {
		l.Start = o.Start
	}
	if o.End > l.End {
		l.End = o.End
	}
}
