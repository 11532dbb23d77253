// Package gff reads GFF3 annotation and turns it into a feature graph.
package gff

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/annograph/internal/graph"
)

// GFF3 column indices.
const (
	fieldSeqID = iota
	fieldSource
	fieldType
	fieldStart
	fieldEnd
	fieldScore
	fieldStrand
	fieldPhase
	fieldAttributes
	numFields
)

// Attributes holds the column 9 tag/value pairs. Values are percent-decoded.
type Attributes map[string][]string

// Get returns the first value of key, or "".
func (a Attributes) Get(key string) string {
	if v := a[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Record is one parsed GFF3 feature line.
type Record struct {
	SeqID      string
	Source     string
	Type       string
	Start      int64
	End        int64
	Score      string
	Strand     int8
	Phase      string
	Attributes Attributes
}

// Reader reads GFF3 records from a stream. It stops at a ##FASTA directive.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	text    string
	done    bool
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long attribute columns
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	return &Reader{scanner: scanner}
}

// Read returns the next record, or io.EOF when the feature section ends.
func (r *Reader) Read() (*Record, error) {
	if r.done {
		return nil, io.EOF
	}
	for r.scanner.Scan() {
		r.line++
		r.text = r.scanner.Text()

		if r.text == "##FASTA" {
			r.done = true
			return nil, io.EOF
		}
		// Skip comments, directives and empty lines
		if strings.HasPrefix(r.text, "#") || strings.TrimSpace(r.text) == "" {
			continue
		}

		rec, err := parseLine(r.text)
		if err != nil {
			return nil, &graph.RecordError{Line: r.line, Text: r.text, Err: err}
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GFF3: %w", err)
	}
	r.done = true
	return nil, io.EOF
}

// Line returns the 1-based number of the line last read.
func (r *Reader) Line() int {
	return r.line
}

// Text returns the raw text of the line last read.
func (r *Reader) Text() string {
	return r.text
}

// parseLine parses a single GFF3 feature line.
func parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < numFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", graph.ErrMalformedRecord, numFields, len(fields))
	}

	start, err := strconv.ParseInt(fields[fieldStart], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: parse start: %v", graph.ErrMalformedRecord, err)
	}
	end, err := strconv.ParseInt(fields[fieldEnd], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: parse end: %v", graph.ErrMalformedRecord, err)
	}
	if fields[fieldSeqID] == "" || fields[fieldType] == "" {
		return nil, fmt.Errorf("%w: empty seqid or type", graph.ErrMalformedRecord)
	}

	return &Record{
		SeqID:      unescape(fields[fieldSeqID]),
		Source:     fields[fieldSource],
		Type:       fields[fieldType],
		Start:      start,
		End:        end,
		Score:      fields[fieldScore],
		Strand:     parseStrand(fields[fieldStrand]),
		Phase:      fields[fieldPhase],
		Attributes: parseAttributes(fields[fieldAttributes]),
	}, nil
}

// parseAttributes parses the GFF3 attribute column.
// Format: key=value1,value2;key=value;...
func parseAttributes(attrStr string) Attributes {
	attrs := make(Attributes)
	if attrStr == "." {
		return attrs
	}

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = unescape(strings.TrimSpace(key))

		for _, v := range strings.Split(value, ",") {
			v = unescape(strings.TrimSpace(v))
			if v != "" {
				attrs[key] = append(attrs[key], v)
			}
		}
	}

	return attrs
}

// parseStrand converts the strand column to +1, -1, or 0 for "." and "?".
func parseStrand(s string) int8 {
	switch s {
	case "+":
		return 1
	case "-":
		return -1
	}
	return 0
}

// unescape decodes %XX escapes. Invalid escapes are kept verbatim.
func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if hi, ok := unhex(s[i+1]); ok {
				if lo, ok := unhex(s[i+2]); ok {
					b.WriteByte(hi<<4 | lo)
					i += 2
					continue
				}
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
