package sink

import (
	"strings"

	"github.com/inodb/annograph/internal/graph"
)

// ColumnType is the portable type of a table column.
type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Real
	Timestamp
)

// Column is one column of a table.
type Column struct {
	Name string
	Type ColumnType
}

// Table is a named set of rows. Values are string, int64, float64,
// time.Time or nil.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// Schema lists every table written by the database sinks. Each table starts
// with the collection identifier so several collections can share a database.
var Schema = []Table{
	{Name: "sequence_regions", Columns: cols("collection", "id", "kind")},
	{Name: "genes", Columns: append(cols("collection", "id", "secondary_id", "type", "name", "description"),
		locCols("length")...)},
	{Name: "transcripts", Columns: append(append(cols("collection", "id", "secondary_id", "type", "name", "gene_id"),
		locCols("length")...), Column{"md5", Text})},
	{Name: "coding_regions", Columns: append(append(cols("collection", "id", "transcript_id"),
		locCols("length")...), Column{"md5", Text}, Column{"segments", Integer})},
	{Name: "cds_segments", Columns: append(cols("collection", "coding_region_id"),
		Column{"ordinal", Integer}, Column{"region", Text}, Column{"start_pos", Integer},
		Column{"end_pos", Integer}, Column{"strand", Integer})},
	{Name: "features", Columns: append(cols("collection", "id", "secondary_id", "kind", "type", "name", "parent_ids"),
		locCols("length")...)},
	{Name: "proteins", Columns: append(cols("collection", "id", "secondary_id", "transcript_id", "gene_id"),
		Column{"length", Integer}, Column{"md5", Text}, Column{"residues", Text})},
	{Name: "ontology_terms", Columns: cols("collection", "id", "kind")},
	{Name: "ontology_annotations", Columns: cols("collection", "subject_id", "term_id")},
	{Name: "gene_domains", Columns: cols("collection", "gene_id", "domain_id")},
	{Name: "gene_families", Columns: append(cols("collection", "gene_id", "family_id"), Column{"score", Real})},
	{Name: "gene_pathways", Columns: cols("collection", "gene_id", "pathway_id", "pathway_name")},
	{Name: "publications", Columns: cols("collection", "doi", "title", "subject_kind", "subject_id")},
	{Name: "data_sources", Columns: append(cols("collection", "path", "kind"),
		Column{"size", Integer}, Column{"mod_time", Timestamp})},
}

func cols(names ...string) []Column {
	out := make([]Column, len(names))
	for i, n := range names {
		out[i] = Column{Name: n, Type: Text}
	}
	return out
}

// locCols returns the location columns followed by an integer column named
// by extra.
func locCols(extra string) []Column {
	return []Column{
		{"region", Text}, {"start_pos", Integer}, {"end_pos", Integer}, {"strand", Integer},
		{extra, Integer},
	}
}

// Tables flattens b into rows following Schema.
func Tables(b *graph.Batch) []Table {
	c := b.Collection
	rows := make(map[string][][]any, len(Schema))
	add := func(table string, values ...any) {
		rows[table] = append(rows[table], append([]any{c}, values...))
	}

	for _, r := range b.Regions {
		add("sequence_regions", r.ID, r.Kind.String())
	}
	for _, g := range b.Genes {
		add("genes", append([]any{g.ID, g.SecondaryID, g.Type, g.DisplayName(), g.Description},
			locValues(g.Location, g.Length)...)...)
		for _, d := range g.ProteinDomains {
			add("gene_domains", g.ID, d.ID)
		}
		for _, p := range g.Pathways {
			add("gene_pathways", g.ID, p.ID, p.Name)
		}
	}
	for _, t := range b.Transcripts {
		var geneID any
		if t.Gene != nil {
			geneID = t.Gene.ID
		}
		add("transcripts", append(append([]any{t.ID, t.SecondaryID, t.Type, t.DisplayName(), geneID},
			locValues(t.Location, t.Length)...), t.MD5)...)
	}
	for _, cr := range b.CodingRegions {
		var transcriptID any
		if cr.Transcript != nil {
			transcriptID = cr.Transcript.ID
		}
		add("coding_regions", append(append([]any{cr.ID, transcriptID},
			locValues(cr.Location, cr.Length)...), cr.MD5, int64(len(cr.Segments)))...)
		for i := range cr.Segments {
			seg := &cr.Segments[i]
			add("cds_segments", cr.ID, int64(i), regionID(seg), seg.Start, seg.End, int64(seg.Strand))
		}
	}
	for _, f := range b.Features {
		parents := make([]string, len(f.Parents))
		for i, p := range f.Parents {
			parents[i] = p.ID
		}
		add("features", append([]any{f.ID, f.SecondaryID, f.Kind.String(), f.Type, f.DisplayName(), strings.Join(parents, ",")},
			locValues(f.Location, f.Length)...)...)
	}
	for _, p := range b.Proteins {
		var transcriptID, geneID any
		if p.Transcript != nil {
			transcriptID = p.Transcript.ID
		}
		if p.Gene != nil {
			geneID = p.Gene.ID
		}
		add("proteins", p.ID, p.SecondaryID, transcriptID, geneID, p.Length, p.MD5, p.Residues)
	}
	for _, t := range b.Terms {
		add("ontology_terms", t.ID, t.Kind.String())
	}
	for _, a := range b.Annotations {
		add("ontology_annotations", a.SubjectID, a.Term.ID)
	}
	for _, a := range b.Assignments {
		var score any
		if a.Score != nil {
			score = *a.Score
		}
		add("gene_families", a.Gene.ID, a.Family.ID, score)
	}
	for _, pub := range b.Publications {
		for _, s := range published(b, pub) {
			add("publications", pub.DOI, pub.Title, s.kind, s.id)
		}
	}
	for _, s := range b.Sources {
		add("data_sources", s.Path, s.Kind, s.Size, s.ModTime)
	}

	out := make([]Table, len(Schema))
	for i, t := range Schema {
		out[i] = Table{Name: t.Name, Columns: t.Columns, Rows: rows[t.Name]}
	}
	return out
}

func locValues(loc *graph.Location, length int64) []any {
	if loc == nil {
		return []any{nil, nil, nil, nil, length}
	}
	return []any{regionID(loc), loc.Start, loc.End, int64(loc.Strand), length}
}

func regionID(loc *graph.Location) any {
	if loc.Region == nil {
		return nil
	}
	return loc.Region.ID
}

type subject struct {
	kind, id string
}

// published returns every entity carrying pub.
func published(b *graph.Batch, pub *graph.Publication) []subject {
	var out []subject
	check := func(f *graph.Feature) {
		for _, p := range f.Publications {
			if p == pub {
				out = append(out, subject{f.Kind.String(), f.ID})
				return
			}
		}
	}
	for _, g := range b.Genes {
		check(&g.Feature)
	}
	for _, t := range b.Transcripts {
		check(&t.Feature)
	}
	for _, cr := range b.CodingRegions {
		check(&cr.Feature)
	}
	for _, p := range b.Proteins {
		for _, pp := range p.Publications {
			if pp == pub {
				out = append(out, subject{"protein", p.ID})
				break
			}
		}
	}
	return out
}
