package graph

// Transcript represents a specific gene isoform (mRNA or non-coding RNA).
type Transcript struct {
	Feature
	Gene         *Gene         // parent gene
	UTRs         []*Feature    // five_prime_UTR / three_prime_UTR children
	CodingRegion *CodingRegion // nil for non-coding transcripts
	Protein      *Protein      // linked at finalize
	MD5          string        // checksum of the transcript FASTA sequence
}

// AddUTR adds u to the transcript's UTRs unless it is already present.
func (t *Transcript) AddUTR(u *Feature) {
	for _, existing := range t.UTRs {
		if existing == u {
			return
		}
	}
	t.UTRs = append(t.UTRs, u)
}

// IsProteinCoding returns true if a coding region is linked to the transcript.
func (t *Transcript) IsProteinCoding() bool {
	return t.CodingRegion != nil
}

// CodingRegion is one logical CDS assembled from its per-exon fragments. It is
// keyed by the identifier of its parent transcript.
//
// The embedded Feature's Location is the envelope over all segments. Length
// is never derived from coordinates; it comes from the CDS FASTA.
type CodingRegion struct {
	Feature
	Transcript *Transcript
	Segments   []Location
	MD5        string
}

// Extend records one more fragment. The first fragment fixes the envelope,
// region and strand; later fragments only move the envelope outwards. Region
// and strand of later fragments are assumed to match and are not checked.
func (c *CodingRegion) Extend(seg Location) {
	if c.Location == nil {
		env := seg
		c.Location = &env
	} else {
		c.Location.expand(seg)
	}
	c.Segments = append(c.Segments, seg)
}

// LinkTranscript sets the transcript back-reference once.
func (c *CodingRegion) LinkTranscript(t *Transcript) {
	if c.Transcript != nil {
		return
	}
	c.Transcript = t
	t.CodingRegion = c
	t.AddChild(&c.Feature)
}
