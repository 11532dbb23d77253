package gff

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/annograph/internal/graph"
	"github.com/inodb/annograph/internal/ident"
	"github.com/inodb/annograph/internal/region"
)

// DefaultDomainPrefix is the Dbxref database tag whose entries are protein
// domains rather than ontology references.
const DefaultDomainPrefix = "InterPro"

// Processor drives entity creation from a sorted GFF3 stream. Parents must
// precede their children; the processor never buffers or reorders records.
type Processor struct {
	reg          *graph.Registry
	ctx          ident.Context
	regions      region.Classifier
	domainPrefix string
	logger       *zap.Logger
}

// NewProcessor creates a processor that registers entities in reg.
func NewProcessor(reg *graph.Registry, ctx ident.Context, regions region.Classifier) *Processor {
	return &Processor{
		reg:          reg,
		ctx:          ctx,
		regions:      regions,
		domainPrefix: DefaultDomainPrefix,
		logger:       zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (p *Processor) SetLogger(l *zap.Logger) {
	p.logger = l
}

// SetDomainPrefix sets the Dbxref tag that marks protein domains.
func (p *Processor) SetDomainPrefix(prefix string) {
	p.domainPrefix = prefix
}

// Process consumes one GFF3 file. name is used in error messages only.
// The first structural error aborts processing and is returned as a
// *graph.RecordError.
func (p *Processor) Process(name string, r io.Reader) error {
	if err := p.reg.CheckOpen(); err != nil {
		return err
	}

	reader := NewReader(r)
	counts := make(map[graph.Kind]int)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var re *graph.RecordError
			if errors.As(err, &re) {
				re.File = name
			}
			return err
		}

		kind, err := p.ProcessRecord(rec)
		if err != nil {
			return &graph.RecordError{File: name, Line: reader.Line(), Text: reader.Text(), Err: err}
		}
		counts[kind]++
	}

	p.logger.Info("processed GFF3 file",
		zap.String("file", name),
		zap.Int("genes", counts[graph.KindGene]),
		zap.Int("transcripts", counts[graph.KindTranscript]),
		zap.Int("cds_records", counts[graph.KindCodingRegion]),
		zap.Int("exons", counts[graph.KindExon]),
		zap.Int("utrs", counts[graph.KindUTR]),
		zap.Int("other", counts[graph.KindGeneric]))
	return nil
}

// ProcessRecord applies one record to the registry and returns its kind.
func (p *Processor) ProcessRecord(rec *Record) (graph.Kind, error) {
	id := rec.Attributes.Get("ID")
	if id == "" {
		return 0, fmt.Errorf("%w: %s record on %s", graph.ErrMissingIdentifier, rec.Type, rec.SeqID)
	}

	kind, ok := KindOf(rec.Type)
	if !ok {
		return 0, fmt.Errorf("%w: %q (ID %s)", graph.ErrUnknownFeatureType, rec.Type, id)
	}

	loc, fresh, err := p.locate(rec)
	if err != nil {
		return kind, err
	}

	switch kind {
	case graph.KindGene:
		err = p.gene(id, rec, loc)
	case graph.KindTranscript:
		err = p.transcript(id, rec, loc)
	case graph.KindCodingRegion:
		err = p.codingRegion(id, rec, loc)
	case graph.KindExon, graph.KindUTR, graph.KindGeneric:
		err = p.feature(id, kind, rec, loc)
	default:
		err = fmt.Errorf("%w: kind %s", graph.ErrUnknownFeatureType, kind)
	}
	if err == nil && fresh {
		p.reg.Regions.GetOrCreate(loc.Region.ID, func(string) *graph.SequenceRegion { return loc.Region })
	}
	return kind, err
}

func (p *Processor) gene(id string, rec *Record, loc graph.Location) error {
	secondary, err := p.checkID(id)
	if err != nil {
		return err
	}
	parents, err := p.resolveNodes(id, rec)
	if err != nil {
		return err
	}

	g, _ := p.reg.Genes.GetOrCreate(id, func(id string) *graph.Gene {
		return &graph.Gene{Feature: p.newFeature(id, secondary, graph.KindGene, rec.Type)}
	})
	adopt(&g.Feature, rec.Type)
	if err := g.Place(loc); err != nil {
		return err
	}
	g.Length = g.Location.Width()

	for _, parent := range parents {
		parent.AddChild(&g.Feature)
	}
	p.annotate(&g.Feature, g, rec)
	return nil
}

func (p *Processor) transcript(id string, rec *Record, loc graph.Location) error {
	secondary, err := p.checkID(id)
	if err != nil {
		return err
	}

	parentIDs := rec.Attributes["Parent"]
	if len(parentIDs) == 0 {
		return fmt.Errorf("%w: transcript %s has no Parent", graph.ErrUnresolvedParent, id)
	}
	genes := make([]*graph.Gene, 0, len(parentIDs))
	for _, pid := range parentIDs {
		g, ok := p.reg.Genes.Get(pid)
		if !ok {
			return fmt.Errorf("%w: gene %s (parent of %s)", graph.ErrUnresolvedParent, pid, id)
		}
		genes = append(genes, g)
	}

	t, _ := p.reg.Transcripts.GetOrCreate(id, func(id string) *graph.Transcript {
		return &graph.Transcript{Feature: p.newFeature(id, secondary, graph.KindTranscript, rec.Type)}
	})
	adopt(&t.Feature, rec.Type)
	if err := t.Place(loc); err != nil {
		return err
	}
	for _, g := range genes {
		g.AddTranscript(t)
	}
	p.annotate(&t.Feature, nil, rec)
	return nil
}

// codingRegion folds a CDS fragment into the coding region keyed by its
// parent transcript. The record's own ID only has to be present.
func (p *Processor) codingRegion(id string, rec *Record, loc graph.Location) error {
	parentIDs := rec.Attributes["Parent"]
	if len(parentIDs) == 0 {
		return fmt.Errorf("%w: CDS %s has no Parent", graph.ErrUnresolvedParent, id)
	}
	secondaries := make([]string, len(parentIDs))
	for i, pid := range parentIDs {
		secondary, err := p.checkID(pid)
		if err != nil {
			return err
		}
		secondaries[i] = secondary
	}
	transcripts := make([]*graph.Transcript, 0, len(parentIDs))
	for _, pid := range parentIDs {
		t, ok := p.reg.Transcripts.Get(pid)
		if !ok {
			return fmt.Errorf("%w: transcript %s (parent of CDS %s)", graph.ErrUnresolvedParent, pid, id)
		}
		transcripts = append(transcripts, t)
	}

	for i, t := range transcripts {
		secondary := secondaries[i]
		cr := p.reg.ExtendCodingRegion(t.ID, loc, func(key string) *graph.CodingRegion {
			return &graph.CodingRegion{Feature: p.newFeature(key, secondary, graph.KindCodingRegion, rec.Type)}
		})
		adopt(&cr.Feature, rec.Type)
		cr.LinkTranscript(t)
		p.annotate(&cr.Feature, nil, rec)
	}
	return nil
}

// feature handles exons, UTRs and every other located feature.
func (p *Processor) feature(id string, kind graph.Kind, rec *Record, loc graph.Location) error {
	secondary, err := p.checkID(id)
	if err != nil {
		return err
	}
	parents, err := p.resolveNodes(id, rec)
	if err != nil {
		return err
	}

	f, _ := p.reg.Features.GetOrCreate(id, func(id string) *graph.Feature {
		nf := p.newFeature(id, secondary, kind, rec.Type)
		return &nf
	})
	if err := f.Place(loc); err != nil {
		return err
	}
	f.Length = f.Location.Width()

	for _, parent := range parents {
		parent.AddChild(f)
		if kind != graph.KindUTR {
			continue
		}
		if t, ok := p.reg.Transcripts.Get(parent.ID); ok {
			t.AddUTR(f)
		}
	}
	p.annotate(f, nil, rec)
	return nil
}

// resolveNodes looks up every Parent of a record. Each one must already be
// registered.
func (p *Processor) resolveNodes(id string, rec *Record) ([]*graph.Feature, error) {
	parentIDs := rec.Attributes["Parent"]
	parents := make([]*graph.Feature, 0, len(parentIDs))
	for _, pid := range parentIDs {
		n, ok := p.reg.Node(pid)
		if !ok {
			return nil, fmt.Errorf("%w: %s (parent of %s)", graph.ErrUnresolvedParent, pid, id)
		}
		parents = append(parents, n)
	}
	return parents, nil
}

// checkID validates that id belongs to the collection and returns its local name.
func (p *Processor) checkID(id string) (string, error) {
	if !p.ctx.Matches(id) {
		return "", fmt.Errorf("%w: %q is not in collection %s", graph.ErrMalformedIdentifier, id, p.ctx.Prefix())
	}
	return p.ctx.Secondary(id)
}

func (p *Processor) newFeature(id, secondary string, kind graph.Kind, soType string) graph.Feature {
	return graph.Feature{
		ID:          id,
		SecondaryID: secondary,
		Kind:        kind,
		Type:        soType,
		Assembly:    p.ctx.Assembly,
		Annotation:  p.ctx.Annotation,
	}
}

// adopt fills in the type of an entity first created as a stub from FASTA or
// TSV input.
func adopt(f *graph.Feature, soType string) {
	if f.Type == "" {
		f.Type = soType
	}
}

// locate resolves the record's sequence region. A region seen for the first
// time is returned unregistered with fresh set; the caller registers it once
// the record has been applied.
func (p *Processor) locate(rec *Record) (loc graph.Location, fresh bool, err error) {
	r, ok := p.reg.Regions.Get(rec.SeqID)
	if !ok {
		var kind graph.RegionKind
		switch {
		case p.regions.IsChromosome(rec.SeqID):
			kind = graph.Chromosome
		case p.regions.IsSupercontig(rec.SeqID):
			kind = graph.Supercontig
		default:
			return graph.Location{}, false, fmt.Errorf("%w: %q", graph.ErrUnrecognizedSequenceRegion, rec.SeqID)
		}
		r = &graph.SequenceRegion{ID: rec.SeqID, Kind: kind}
	}
	return graph.NewLocation(r, rec.Start, rec.End, rec.Strand), !ok, nil
}

// annotate applies Name, Note, Dbxref and Ontology_term. Protein domains are
// only attached when gene is non-nil.
func (p *Processor) annotate(f *graph.Feature, gene *graph.Gene, rec *Record) {
	if name := rec.Attributes.Get("Name"); name != "" {
		f.Name = name
	} else {
		f.Name = f.DisplayName()
	}

	if note := rec.Attributes["Note"]; len(note) > 0 {
		f.Description = strings.Join(note, ",")
	}

	for _, xref := range rec.Attributes["Dbxref"] {
		db, acc, ok := strings.Cut(xref, ":")
		if !ok || acc == "" {
			continue
		}
		if strings.EqualFold(db, p.domainPrefix) {
			if gene != nil {
				d, _ := p.reg.Domains.GetOrCreate(acc, func(id string) *graph.ProteinDomain {
					return &graph.ProteinDomain{ID: id}
				})
				gene.AddProteinDomain(d)
			}
			continue
		}
		p.reg.Annotate(f.ID, &f.Annotatable, xref)
	}

	for _, term := range rec.Attributes["Ontology_term"] {
		p.reg.Annotate(f.ID, &f.Annotatable, term)
	}
}
