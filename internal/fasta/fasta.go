// Package fasta reads protein, transcript and CDS sequences from FASTA files.
package fasta

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Kind is the kind of entity a FASTA file carries sequences for.
type Kind int

const (
	Protein Kind = iota
	Transcript
	CDS
)

func (k Kind) String() string {
	switch k {
	case Protein:
		return "protein"
	case Transcript:
		return "transcript"
	case CDS:
		return "cds"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Record is one FASTA entry.
type Record struct {
	ID          string
	Description string
	Sequence    string
}

// Length returns the number of residues.
func (r *Record) Length() int64 {
	return int64(len(r.Sequence))
}

// MD5 returns the hex MD5 checksum of the upper-cased sequence.
func (r *Record) MD5() string {
	sum := md5.Sum([]byte(strings.ToUpper(r.Sequence)))
	return hex.EncodeToString(sum[:])
}

// Reader reads FASTA records.
type Reader struct {
	sc *seqio.Scanner
}

// NewReader creates a Reader for sequences of the given kind.
func NewReader(r io.Reader, kind Kind) *Reader {
	alpha := alphabet.Alphabet(alphabet.DNAredundant)
	if kind == Protein {
		alpha = alphabet.Protein
	}
	return &Reader{sc: seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alpha)))}
}

// Read returns the next record, or io.EOF.
func (r *Reader) Read() (*Record, error) {
	if !r.sc.Next() {
		if err := r.sc.Error(); err != nil {
			return nil, fmt.Errorf("scan FASTA: %w", err)
		}
		return nil, io.EOF
	}

	s, ok := r.sc.Seq().(*linear.Seq)
	if !ok {
		return nil, fmt.Errorf("scan FASTA: unexpected sequence type %T", r.sc.Seq())
	}
	residues := make([]byte, len(s.Seq))
	for i, l := range s.Seq {
		residues[i] = byte(l)
	}

	return &Record{
		ID:          parseID(s.Name()),
		Description: s.Description(),
		Sequence:    strings.TrimSuffix(string(residues), "*"),
	}, nil
}

// parseID extracts the identifier from a header name. Pipe-delimited headers
// (id|gene|...) keep only the first field.
func parseID(name string) string {
	if idx := strings.Index(name, "|"); idx != -1 {
		return name[:idx]
	}
	return name
}
