package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixes(t *testing.T) {
	p := NewPrefixes(nil, nil, "glyma.Wm82.gnm2")

	tests := []struct {
		name        string
		chromosome  bool
		supercontig bool
	}{
		{"chr1", true, false},
		{"glyma.Wm82.gnm2.Gm01", true, false},
		{"glyma.Wm82.gnm2.scaffold_21", false, true},
		{"Scaffold_1000", false, true},
		{"plasmid1", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.chromosome, p.IsChromosome(tt.name))
			assert.Equal(t, tt.supercontig, p.IsSupercontig(tt.name))
		})
	}
}

func TestPrefixes_Configured(t *testing.T) {
	p := NewPrefixes([]string{"LG"}, []string{"U"}, "")

	assert.True(t, p.IsChromosome("LG04"))
	assert.False(t, p.IsChromosome("chr1"))
	assert.True(t, p.IsSupercontig("U123"))
}
