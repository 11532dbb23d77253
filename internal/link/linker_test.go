package link

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/annograph/internal/fasta"
	"github.com/inodb/annograph/internal/gff"
	"github.com/inodb/annograph/internal/graph"
	"github.com/inodb/annograph/internal/ident"
	"github.com/inodb/annograph/internal/region"
	"github.com/inodb/annograph/internal/tsv"
)

var testCtx = ident.Context{Species: "sp", Strain: "strA", Assembly: "gnm1", Annotation: "ann1", Key: "ABCD"}

const (
	geneID       = "sp.strA.gnm1.ann1.G1"
	transcriptID = "sp.strA.gnm1.ann1.G1.1"
)

var testGFF = strings.Join([]string{
	"chr1\tsrc\tgene\t1\t1000\t.\t+\t.\tID=" + geneID + ";Name=G1",
	"chr1\tsrc\tmRNA\t1\t1000\t.\t+\t.\tID=" + transcriptID + ";Parent=" + geneID,
	"chr1\tsrc\tCDS\t1\t400\t.\t+\t.\tID=cds1;Parent=" + transcriptID,
	"chr1\tsrc\tCDS\t700\t1000\t.\t+\t.\tID=cds2;Parent=" + transcriptID,
}, "\n") + "\n"

func newTest() (*gff.Processor, *Linker, *graph.Registry) {
	reg := graph.NewRegistry()
	p := gff.NewProcessor(reg, testCtx, region.NewPrefixes(nil, nil, testCtx.AssemblyPrefix()))
	return p, NewLinker(reg, testCtx), reg
}

func loadGFF(t *testing.T, p *gff.Processor, content string) {
	t.Helper()
	require.NoError(t, p.Process("test.gff3", strings.NewReader(content)))
}

func attachAll(t *testing.T, l *Linker) {
	t.Helper()
	require.NoError(t, l.AttachSequence(fasta.Protein, &fasta.Record{ID: transcriptID, Sequence: "MKTAYIAKQR"}))
	require.NoError(t, l.AttachSequence(fasta.Transcript, &fasta.Record{ID: transcriptID, Sequence: "ATGAAAACCGCATAA"}))
	require.NoError(t, l.AttachSequence(fasta.CDS, &fasta.Record{ID: transcriptID, Sequence: "ATGAAAACCGCA"}))
}

type snapshot struct {
	GeneType, TranscriptType, CDSType string
	TranscriptLength, CDSLength       int64
	TranscriptMD5, CDSMD5             string
	CDSStart, CDSEnd                  int64
	Segments                          int
	TranscriptName                    string
	ProteinLinked, CDSLinked          bool
}

func snap(t *testing.T, reg *graph.Registry) snapshot {
	t.Helper()
	g, ok := reg.Genes.Get(geneID)
	require.True(t, ok)
	tr, ok := reg.Transcripts.Get(transcriptID)
	require.True(t, ok)
	cr, ok := reg.CodingRegions.Get(transcriptID)
	require.True(t, ok)
	p, ok := reg.Proteins.Get(transcriptID)
	require.True(t, ok)
	require.NotNil(t, cr.Location)

	return snapshot{
		GeneType:         g.Type,
		TranscriptType:   tr.Type,
		CDSType:          cr.Type,
		TranscriptLength: tr.Length,
		CDSLength:        cr.Length,
		TranscriptMD5:    tr.MD5,
		CDSMD5:           cr.MD5,
		CDSStart:         cr.Location.Start,
		CDSEnd:           cr.Location.End,
		Segments:         len(cr.Segments),
		TranscriptName:   tr.Name,
		ProteinLinked:    p.Transcript == tr && p.Gene == g && tr.Protein == p,
		CDSLinked:        cr.Transcript == tr && tr.CodingRegion == cr,
	}
}

func TestAttachSequence_OrderIndependent(t *testing.T) {
	p1, l1, reg1 := newTest()
	loadGFF(t, p1, testGFF)
	attachAll(t, l1)
	_, err := l1.Finalize(nil)
	require.NoError(t, err)

	p2, l2, reg2 := newTest()
	attachAll(t, l2)
	loadGFF(t, p2, testGFF)
	_, err = l2.Finalize(nil)
	require.NoError(t, err)

	gffFirst := snap(t, reg1)
	fastaFirst := snap(t, reg2)
	assert.Equal(t, gffFirst, fastaFirst)

	assert.Equal(t, "mRNA", gffFirst.TranscriptType)
	assert.Equal(t, "CDS", gffFirst.CDSType)
	assert.Equal(t, int64(15), gffFirst.TranscriptLength)
	assert.Equal(t, int64(12), gffFirst.CDSLength)
	assert.Equal(t, int64(1), gffFirst.CDSStart)
	assert.Equal(t, int64(1000), gffFirst.CDSEnd)
	assert.Equal(t, 2, gffFirst.Segments)
	assert.True(t, gffFirst.ProteinLinked)
	assert.True(t, gffFirst.CDSLinked)
}

func TestAttachSequence_Protein(t *testing.T) {
	_, l, reg := newTest()
	rec := &fasta.Record{ID: transcriptID, Sequence: "MKTA"}
	require.NoError(t, l.AttachSequence(fasta.Protein, rec))

	p, ok := reg.Proteins.Get(transcriptID)
	require.True(t, ok)
	assert.Equal(t, "G1.1", p.SecondaryID)
	assert.Equal(t, int64(4), p.Length)
	assert.Equal(t, rec.MD5(), p.MD5)
	assert.Equal(t, "MKTA", p.Residues)
}

func TestAttachSequence_ForeignIdentifier(t *testing.T) {
	_, l, reg := newTest()
	err := l.AttachSequence(fasta.Protein, &fasta.Record{ID: "other.strB.gnm1.ann1.X1.1", Sequence: "M"})
	assert.ErrorIs(t, err, graph.ErrMalformedIdentifier)
	assert.Equal(t, 0, reg.Proteins.Len())
}

func TestFinalize_FallbackLinksCodingRegion(t *testing.T) {
	p, l, reg := newTest()
	loadGFF(t, p, strings.Join(strings.Split(testGFF, "\n")[:2], "\n")+"\n")
	require.NoError(t, l.AttachSequence(fasta.CDS, &fasta.Record{ID: transcriptID, Sequence: "ATG"}))

	cr, ok := reg.CodingRegions.Get(transcriptID)
	require.True(t, ok)
	assert.Nil(t, cr.Transcript)

	_, err := l.Finalize(nil)
	require.NoError(t, err)

	tr, _ := reg.Transcripts.Get(transcriptID)
	assert.Same(t, tr, cr.Transcript)
	assert.Same(t, cr, tr.CodingRegion)
	assert.True(t, tr.IsProteinCoding())
}

func TestFinalize_Publication(t *testing.T) {
	p, l, reg := newTest()
	loadGFF(t, p, testGFF)
	attachAll(t, l)

	batch, err := l.Finalize(&graph.Publication{DOI: "10.1000/xyz", Title: "A genome"})
	require.NoError(t, err)
	require.Len(t, batch.Publications, 1)
	pub := batch.Publications[0]
	assert.Equal(t, "A genome", pub.Title)

	g, _ := reg.Genes.Get(geneID)
	tr, _ := reg.Transcripts.Get(transcriptID)
	cr, _ := reg.CodingRegions.Get(transcriptID)
	pr, _ := reg.Proteins.Get(transcriptID)
	for _, a := range []*graph.Annotatable{&g.Annotatable, &tr.Annotatable, &cr.Annotatable, &pr.Annotatable} {
		assert.Equal(t, []*graph.Publication{pub}, a.Publications)
	}

	assert.Equal(t, "sp.strA.gnm1.ann1.ABCD", batch.Collection)
	assert.Equal(t, 1, batch.Counts()["genes"])
}

func TestFinalize_NoPublication(t *testing.T) {
	p, l, _ := newTest()
	loadGFF(t, p, testGFF)

	batch, err := l.Finalize(&graph.Publication{})
	require.NoError(t, err)
	assert.Empty(t, batch.Publications)
	assert.Empty(t, batch.Genes[0].Publications)
}

func TestFinalize_Seals(t *testing.T) {
	p, l, _ := newTest()
	loadGFF(t, p, testGFF)
	_, err := l.Finalize(nil)
	require.NoError(t, err)

	_, err = l.Finalize(nil)
	assert.ErrorIs(t, err, graph.ErrFinalized)
	assert.ErrorIs(t, l.AttachSequence(fasta.Protein, &fasta.Record{ID: transcriptID}), graph.ErrFinalized)
	assert.ErrorIs(t, l.AssignFamily(tsv.FamilyRow{GeneID: geneID, FamilyID: "f1"}), graph.ErrFinalized)
	assert.ErrorIs(t, p.Process("late.gff3", strings.NewReader(testGFF)), graph.ErrFinalized)
}

func TestAssignFamily(t *testing.T) {
	p, l, reg := newTest()
	loadGFF(t, p, testGFF)

	score := 0.5
	require.NoError(t, l.AssignFamily(tsv.FamilyRow{GeneID: geneID, FamilyID: "legfed.L_1", Score: &score}))
	require.NoError(t, l.AssignFamily(tsv.FamilyRow{GeneID: geneID, FamilyID: "legfed.L_1"}))
	require.NoError(t, l.AssignFamily(tsv.FamilyRow{GeneID: "sp.strA.gnm1.ann1.G9", FamilyID: "legfed.L_1"}))

	g, _ := reg.Genes.Get(geneID)
	require.Len(t, g.Families, 1)
	assert.Equal(t, "legfed.L_1", g.Families[0].Family.ID)
	assert.InDelta(t, 0.5, *g.Families[0].Score, 1e-9)

	assert.Equal(t, 1, reg.Families.Len())
	assert.Len(t, reg.Assignments, 2)

	stub, ok := reg.Genes.Get("sp.strA.gnm1.ann1.G9")
	require.True(t, ok)
	assert.Equal(t, "G9", stub.SecondaryID)
	assert.Nil(t, stub.Location)
}

func TestAssignPathway(t *testing.T) {
	_, l, reg := newTest()
	require.NoError(t, l.AssignPathway(tsv.PathwayRow{GeneID: geneID, PathwayID: "PWY-1"}))
	require.NoError(t, l.AssignPathway(tsv.PathwayRow{GeneID: geneID, PathwayID: "PWY-1", Name: "glycolysis"}))

	g, _ := reg.Genes.Get(geneID)
	require.Len(t, g.Pathways, 1)
	assert.Equal(t, "glycolysis", g.Pathways[0].Name)
}

func TestAnnotateOntology(t *testing.T) {
	_, l, reg := newTest()
	require.NoError(t, l.AttachSequence(fasta.Protein, &fasta.Record{ID: transcriptID, Sequence: "M"}))

	require.NoError(t, l.AnnotateOntology(tsv.OntologyRow{ID: transcriptID, Terms: []string{"GO:0005634"}}))
	require.NoError(t, l.AnnotateOntology(tsv.OntologyRow{ID: geneID, Terms: []string{"GO:0005634", "PO:0009005"}}))

	pr, _ := reg.Proteins.Get(transcriptID)
	require.Len(t, pr.OntologyAnnotations, 1)
	_, isGene := reg.Genes.Get(transcriptID)
	assert.False(t, isGene)

	g, ok := reg.Genes.Get(geneID)
	require.True(t, ok)
	require.Len(t, g.OntologyAnnotations, 2)
	assert.Equal(t, graph.TermGO, g.OntologyAnnotations[0].Term.Kind)
	assert.Equal(t, graph.TermOther, g.OntologyAnnotations[1].Term.Kind)

	assert.Equal(t, 2, reg.Terms.Len())
	assert.Same(t, pr.OntologyAnnotations[0].Term, g.OntologyAnnotations[0].Term)
}

func TestTranscriptKeyedRows(t *testing.T) {
	p, l, reg := newTest()
	loadGFF(t, p, testGFF)

	require.NoError(t, l.AnnotateOntology(tsv.OntologyRow{ID: transcriptID, Terms: []string{"GO:0003674"}}))
	require.NoError(t, l.AssignFamily(tsv.FamilyRow{GeneID: transcriptID, FamilyID: "legfed.L_1"}))
	require.NoError(t, l.AssignPathway(tsv.PathwayRow{GeneID: transcriptID, PathwayID: "PWY-1"}))

	assert.Equal(t, 1, reg.Genes.Len())
	tr, _ := reg.Transcripts.Get(transcriptID)
	require.Len(t, tr.OntologyAnnotations, 1)
	assert.Equal(t, transcriptID, tr.OntologyAnnotations[0].SubjectID)

	g, _ := reg.Genes.Get(geneID)
	assert.Empty(t, g.OntologyAnnotations)
	require.Len(t, g.Families, 1)
	require.Len(t, g.Pathways, 1)
	assert.Same(t, g, reg.Assignments[0].Gene)
}

func TestAssignFamily_TranscriptWithoutGene(t *testing.T) {
	_, l, reg := newTest()
	require.NoError(t, l.AttachSequence(fasta.Transcript, &fasta.Record{ID: transcriptID, Sequence: "ATG"}))

	err := l.AssignFamily(tsv.FamilyRow{GeneID: transcriptID, FamilyID: "legfed.L_1"})
	assert.ErrorIs(t, err, graph.ErrUnresolvedParent)
	assert.Equal(t, 0, reg.Genes.Len())
	assert.Empty(t, reg.Assignments)
}
