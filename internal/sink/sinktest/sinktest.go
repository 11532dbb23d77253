// Package sinktest provides fixtures for sink implementations.
package sinktest

import (
	"time"

	"github.com/inodb/annograph/internal/graph"
)

// Collection is the identifier of the fixture collection.
const Collection = "sp.strA.gnm1.ann1.ABCD"

// Batch builds a small finished collection: one gene with one coding
// transcript, a protein, a family, a pathway and a publication.
func Batch() *graph.Batch {
	reg := graph.NewRegistry()
	chr1, _ := reg.Regions.GetOrCreate("chr1", func(id string) *graph.SequenceRegion {
		return &graph.SequenceRegion{ID: id, Kind: graph.Chromosome}
	})

	g, _ := reg.Genes.GetOrCreate("sp.strA.gnm1.ann1.G1", func(id string) *graph.Gene {
		return &graph.Gene{Feature: graph.Feature{ID: id, SecondaryID: "G1", Kind: graph.KindGene, Type: "gene"}}
	})
	loc := graph.NewLocation(chr1, 1, 1000, 1)
	g.Location = &loc
	g.Length = 1000

	tr, _ := reg.Transcripts.GetOrCreate("sp.strA.gnm1.ann1.G1.1", func(id string) *graph.Transcript {
		return &graph.Transcript{Feature: graph.Feature{ID: id, SecondaryID: "G1.1", Kind: graph.KindTranscript, Type: "mRNA"}}
	})
	g.AddTranscript(tr)

	cr := reg.ExtendCodingRegion(tr.ID, graph.NewLocation(chr1, 1, 400, 1), func(id string) *graph.CodingRegion {
		return &graph.CodingRegion{Feature: graph.Feature{ID: id, Kind: graph.KindCodingRegion, Type: "CDS"}}
	})
	cr.Extend(graph.NewLocation(chr1, 700, 1000, 1))
	cr.LinkTranscript(tr)

	p, _ := reg.Proteins.GetOrCreate(tr.ID, func(id string) *graph.Protein {
		return &graph.Protein{ID: id, SecondaryID: "G1.1", Length: 4, Residues: "MKTA"}
	})
	p.Transcript, p.Gene = tr, g
	g.AddProtein(p)

	reg.Annotate(g.ID, &g.Annotatable, "GO:0005634")
	d, _ := reg.Domains.GetOrCreate("IPR000719", func(id string) *graph.ProteinDomain { return &graph.ProteinDomain{ID: id} })
	g.AddProteinDomain(d)

	fam, _ := reg.Families.GetOrCreate("legfed.L_1", func(id string) *graph.GeneFamily { return &graph.GeneFamily{ID: id} })
	reg.Assignments = append(reg.Assignments, &graph.GeneFamilyAssignment{Gene: g, Family: fam})

	pw, _ := reg.Pathways.GetOrCreate("PWY-1", func(id string) *graph.Pathway { return &graph.Pathway{ID: id, Name: "glycolysis"} })
	g.AddPathway(pw)

	pub, _ := reg.Publications.GetOrCreate("10.1000/xyz", func(id string) *graph.Publication {
		return &graph.Publication{DOI: id, Title: "A genome"}
	})
	g.AddPublication(pub)
	p.AddPublication(pub)

	reg.AddSource(graph.DataSource{Path: "a.gff3", Kind: "gff3", Size: 10, ModTime: time.Unix(0, 0)})
	return reg.Batch(Collection)
}
