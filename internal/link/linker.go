// Package link joins FASTA sequences and TSV associations onto the entities
// built from GFF3, and closes the collection once every file has been read.
package link

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/annograph/internal/fasta"
	"github.com/inodb/annograph/internal/graph"
	"github.com/inodb/annograph/internal/ident"
	"github.com/inodb/annograph/internal/tsv"
)

// Linker attaches secondary inputs to a registry. Inputs may arrive before or
// after the GFF3 that locates their entities: an unknown identifier creates a
// stub that the GFF3 processor later fills in.
type Linker struct {
	reg    *graph.Registry
	ctx    ident.Context
	logger *zap.Logger
}

// NewLinker creates a linker for the collection described by ctx.
func NewLinker(reg *graph.Registry, ctx ident.Context) *Linker {
	return &Linker{reg: reg, ctx: ctx, logger: zap.NewNop()}
}

// SetLogger sets the logger.
func (l *Linker) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// AttachSequence records the length and checksum of a FASTA record on the
// protein, transcript or coding region with the same identifier.
func (l *Linker) AttachSequence(kind fasta.Kind, rec *fasta.Record) error {
	if err := l.reg.CheckOpen(); err != nil {
		return err
	}
	secondary, err := l.secondary(rec.ID)
	if err != nil {
		return err
	}

	switch kind {
	case fasta.Protein:
		p, _ := l.reg.Proteins.GetOrCreate(rec.ID, func(id string) *graph.Protein {
			return &graph.Protein{ID: id, SecondaryID: secondary}
		})
		p.Length = rec.Length()
		p.MD5 = rec.MD5()
		p.Residues = rec.Sequence
	case fasta.Transcript:
		t, _ := l.reg.Transcripts.GetOrCreate(rec.ID, func(id string) *graph.Transcript {
			return &graph.Transcript{Feature: l.stub(id, secondary, graph.KindTranscript)}
		})
		t.Length = rec.Length()
		t.MD5 = rec.MD5()
	case fasta.CDS:
		cr, _ := l.reg.CodingRegions.GetOrCreate(rec.ID, func(id string) *graph.CodingRegion {
			return &graph.CodingRegion{Feature: l.stub(id, secondary, graph.KindCodingRegion)}
		})
		cr.Length = rec.Length()
		cr.MD5 = rec.MD5()
	default:
		return fmt.Errorf("attach sequence %s: unsupported kind %s", rec.ID, kind)
	}
	return nil
}

// AssignFamily places a gene in a gene family. A transcript identifier
// resolves to its gene.
func (l *Linker) AssignFamily(row tsv.FamilyRow) error {
	g, err := l.geneOf(row.GeneID)
	if err != nil {
		return err
	}
	fam, _ := l.reg.Families.GetOrCreate(row.FamilyID, func(id string) *graph.GeneFamily {
		return &graph.GeneFamily{ID: id}
	})
	for _, a := range g.Families {
		if a.Family == fam {
			return nil
		}
	}
	a := &graph.GeneFamilyAssignment{Gene: g, Family: fam, Score: row.Score}
	g.Families = append(g.Families, a)
	l.reg.Assignments = append(l.reg.Assignments, a)
	return nil
}

// AssignPathway adds a gene to a pathway. The first non-empty name wins.
func (l *Linker) AssignPathway(row tsv.PathwayRow) error {
	g, err := l.geneOf(row.GeneID)
	if err != nil {
		return err
	}
	pw, _ := l.reg.Pathways.GetOrCreate(row.PathwayID, func(id string) *graph.Pathway {
		return &graph.Pathway{ID: id}
	})
	if pw.Name == "" {
		pw.Name = row.Name
	}
	g.AddPathway(pw)
	return nil
}

// AnnotateOntology attaches ontology terms to the gene, transcript or
// protein carrying the row's identifier, in that order of preference. An
// unknown identifier creates a gene stub.
func (l *Linker) AnnotateOntology(row tsv.OntologyRow) error {
	if err := l.reg.CheckOpen(); err != nil {
		return err
	}

	var subject *graph.Annotatable
	if g, ok := l.reg.Genes.Get(row.ID); ok {
		subject = &g.Annotatable
	} else if t, ok := l.reg.Transcripts.Get(row.ID); ok {
		subject = &t.Annotatable
	} else if p, ok := l.reg.Proteins.Get(row.ID); ok {
		subject = &p.Annotatable
	}
	if subject == nil {
		g, err := l.gene(row.ID)
		if err != nil {
			return err
		}
		subject = &g.Annotatable
	}

	for _, term := range row.Terms {
		l.reg.Annotate(row.ID, subject, term)
	}
	return nil
}

// Finalize completes cross-file links, attaches the publication and seals
// the registry. No further input is accepted afterwards.
func (l *Linker) Finalize(pub *graph.Publication) (*graph.Batch, error) {
	if err := l.reg.CheckOpen(); err != nil {
		return nil, err
	}

	orphans := 0
	for _, cr := range l.reg.CodingRegions.All() {
		if cr.Transcript != nil {
			continue
		}
		if t, ok := l.reg.Transcripts.Get(cr.ID); ok {
			cr.LinkTranscript(t)
			continue
		}
		orphans++
	}
	if orphans > 0 {
		l.logger.Warn("coding regions without a transcript", zap.Int("count", orphans))
	}

	for _, p := range l.reg.Proteins.All() {
		t, ok := l.reg.Transcripts.Get(p.ID)
		if !ok {
			continue
		}
		p.Transcript = t
		t.Protein = p
		if t.Gene != nil {
			p.Gene = t.Gene
			t.Gene.AddProtein(p)
		}
	}

	if pub != nil && pub.DOI != "" {
		l.publish(pub)
	}

	l.reg.Seal()
	batch := l.reg.Batch(l.ctx.Identifier())
	l.logger.Info("finalized collection",
		zap.String("collection", batch.Collection),
		zap.Int("genes", len(batch.Genes)),
		zap.Int("transcripts", len(batch.Transcripts)),
		zap.Int("proteins", len(batch.Proteins)))
	return batch, nil
}

func (l *Linker) publish(pub *graph.Publication) {
	p, _ := l.reg.Publications.GetOrCreate(pub.DOI, func(doi string) *graph.Publication {
		return &graph.Publication{DOI: doi, Title: pub.Title}
	})
	for _, g := range l.reg.Genes.All() {
		g.AddPublication(p)
	}
	for _, t := range l.reg.Transcripts.All() {
		t.AddPublication(p)
	}
	for _, cr := range l.reg.CodingRegions.All() {
		cr.AddPublication(p)
	}
	for _, pr := range l.reg.Proteins.All() {
		pr.AddPublication(p)
	}
}

// geneOf returns the gene with id. A transcript identifier stands for the
// transcript's gene; a transcript known only from FASTA has none.
func (l *Linker) geneOf(id string) (*graph.Gene, error) {
	if err := l.reg.CheckOpen(); err != nil {
		return nil, err
	}
	if _, ok := l.reg.Genes.Get(id); !ok {
		if t, ok := l.reg.Transcripts.Get(id); ok {
			if t.Gene == nil {
				return nil, fmt.Errorf("%w: transcript %s has no gene", graph.ErrUnresolvedParent, id)
			}
			return t.Gene, nil
		}
	}
	return l.gene(id)
}

// gene returns the gene with id, creating a stub on first reference.
func (l *Linker) gene(id string) (*graph.Gene, error) {
	if err := l.reg.CheckOpen(); err != nil {
		return nil, err
	}
	secondary, err := l.secondary(id)
	if err != nil {
		return nil, err
	}
	g, _ := l.reg.Genes.GetOrCreate(id, func(id string) *graph.Gene {
		return &graph.Gene{Feature: l.stub(id, secondary, graph.KindGene)}
	})
	return g, nil
}

func (l *Linker) secondary(id string) (string, error) {
	if !l.ctx.Matches(id) {
		return "", fmt.Errorf("%w: %q is not in collection %s", graph.ErrMalformedIdentifier, id, l.ctx.Prefix())
	}
	return l.ctx.Secondary(id)
}

func (l *Linker) stub(id, secondary string, kind graph.Kind) graph.Feature {
	return graph.Feature{
		ID:          id,
		SecondaryID: secondary,
		Kind:        kind,
		Assembly:    l.ctx.Assembly,
		Annotation:  l.ctx.Annotation,
	}
}
