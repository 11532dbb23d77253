// Package region classifies sequence names as chromosomes or supercontigs.
package region

import "strings"

// Classifier decides what kind of sequence region a GFF3 seqid names.
type Classifier interface {
	IsChromosome(name string) bool
	IsSupercontig(name string) bool
}

// Prefixes classifies sequence names by configured name prefixes.
// Names of the form species.strain.assembly.local are matched on their local
// part when AssemblyPrefix is set.
type Prefixes struct {
	Chromosome     []string
	Supercontig    []string
	AssemblyPrefix string
}

// DefaultChromosomePrefixes and DefaultSupercontigPrefixes are used when no
// prefixes are configured.
var (
	DefaultChromosomePrefixes  = []string{"chr", "Chr", "Gm", "Lj", "Ca", "Pv", "Vu", "Ah", "Mt"}
	DefaultSupercontigPrefixes = []string{"scaffold", "Scaffold", "sc", "contig", "Contig", "unplaced"}
)

// NewPrefixes returns a Prefixes classifier, falling back to the defaults for
// empty prefix lists.
func NewPrefixes(chromosome, supercontig []string, assemblyPrefix string) *Prefixes {
	if len(chromosome) == 0 {
		chromosome = DefaultChromosomePrefixes
	}
	if len(supercontig) == 0 {
		supercontig = DefaultSupercontigPrefixes
	}
	return &Prefixes{Chromosome: chromosome, Supercontig: supercontig, AssemblyPrefix: assemblyPrefix}
}

// IsChromosome implements Classifier.
func (p *Prefixes) IsChromosome(name string) bool {
	return hasAnyPrefix(p.local(name), p.Chromosome)
}

// IsSupercontig implements Classifier.
func (p *Prefixes) IsSupercontig(name string) bool {
	return hasAnyPrefix(p.local(name), p.Supercontig)
}

func (p *Prefixes) local(name string) string {
	if p.AssemblyPrefix != "" {
		return strings.TrimPrefix(name, p.AssemblyPrefix+".")
	}
	return name
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
