// Package tsv reads the tab-separated association tables shipped alongside
// annotation collections: gene family assignments, pathway memberships and
// ontology term lists.
package tsv

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/annograph/internal/graph"
)

// FamilyRow assigns a gene to a gene family.
type FamilyRow struct {
	Line     int
	GeneID   string
	FamilyID string
	Score    *float64
}

// PathwayRow places a gene in a pathway.
type PathwayRow struct {
	Line      int
	GeneID    string
	PathwayID string
	Name      string
}

// OntologyRow lists ontology terms for a gene or protein.
type OntologyRow struct {
	Line  int
	ID    string
	Terms []string
}

// ReadFamilies parses a gene family table: gene, family and an optional score.
func ReadFamilies(r io.Reader) ([]FamilyRow, error) {
	var rows []FamilyRow
	err := scan(r, 2, func(line int, fields []string) error {
		row := FamilyRow{Line: line, GeneID: fields[0], FamilyID: fields[1]}
		if len(fields) > 2 && fields[2] != "" && fields[2] != "." {
			score, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return fmt.Errorf("%w: score %q", graph.ErrMalformedRecord, fields[2])
			}
			row.Score = &score
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// ReadPathways parses a pathway table: gene, pathway id and an optional name.
func ReadPathways(r io.Reader) ([]PathwayRow, error) {
	var rows []PathwayRow
	err := scan(r, 2, func(line int, fields []string) error {
		row := PathwayRow{Line: line, GeneID: fields[0], PathwayID: fields[1]}
		if len(fields) > 2 {
			row.Name = fields[2]
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// ReadOntology parses an ontology table: an identifier followed by one or
// more columns of comma-separated terms.
func ReadOntology(r io.Reader) ([]OntologyRow, error) {
	var rows []OntologyRow
	err := scan(r, 2, func(line int, fields []string) error {
		row := OntologyRow{Line: line, ID: fields[0]}
		for _, col := range fields[1:] {
			for _, term := range strings.Split(col, ",") {
				if term = strings.TrimSpace(term); term != "" {
					row.Terms = append(row.Terms, term)
				}
			}
		}
		if len(row.Terms) == 0 {
			return fmt.Errorf("%w: no ontology terms for %s", graph.ErrMalformedRecord, row.ID)
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// scan calls fn for each data line with at least minFields non-empty leading
// fields. Blank lines and '#' comments are skipped. Errors carry the line.
func scan(r io.Reader, minFields int, fn func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	// Ontology rows can carry hundreds of terms
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) < minFields {
			return &graph.RecordError{Line: lineNo, Text: text,
				Err: fmt.Errorf("%w: %d fields, want at least %d", graph.ErrMalformedRecord, len(fields), minFields)}
		}
		for _, f := range fields[:minFields] {
			if f == "" {
				return &graph.RecordError{Line: lineNo, Text: text,
					Err: fmt.Errorf("%w: empty required field", graph.ErrMalformedRecord)}
			}
		}

		if err := fn(lineNo, fields); err != nil {
			return &graph.RecordError{Line: lineNo, Text: text, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read TSV: %w", err)
	}
	return nil
}
