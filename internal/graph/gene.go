package graph

// Gene is an annotated gene with its transcripts and gene-level associations.
type Gene struct {
	Feature
	Transcripts    []*Transcript
	Proteins       []*Protein
	ProteinDomains []*ProteinDomain
	Families       []*GeneFamilyAssignment
	Pathways       []*Pathway
}

// AddTranscript links t to g. Linking the same transcript twice is a no-op.
func (g *Gene) AddTranscript(t *Transcript) {
	for _, existing := range g.Transcripts {
		if existing == t {
			return
		}
	}
	g.Transcripts = append(g.Transcripts, t)
	g.AddChild(&t.Feature)
	if t.Gene == nil {
		t.Gene = g
	}
}

// AddProteinDomain attaches d unless it is already attached.
func (g *Gene) AddProteinDomain(d *ProteinDomain) {
	for _, existing := range g.ProteinDomains {
		if existing == d {
			return
		}
	}
	g.ProteinDomains = append(g.ProteinDomains, d)
}

// AddProtein attaches p unless it is already attached.
func (g *Gene) AddProtein(p *Protein) {
	for _, existing := range g.Proteins {
		if existing == p {
			return
		}
	}
	g.Proteins = append(g.Proteins, p)
}

// AddPathway attaches p unless it is already attached.
func (g *Gene) AddPathway(p *Pathway) {
	for _, existing := range g.Pathways {
		if existing == p {
			return
		}
	}
	g.Pathways = append(g.Pathways, p)
}
