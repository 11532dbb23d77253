package duckdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/annograph/internal/sink/sinktest"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "annograph.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)
}

func TestWrite(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.Write(context.Background(), sinktest.Batch()))

	tests := []struct {
		table string
		rows  int
	}{
		{"sequence_regions", 1},
		{"genes", 1},
		{"transcripts", 1},
		{"coding_regions", 1},
		{"cds_segments", 2},
		{"features", 0},
		{"proteins", 1},
		{"ontology_terms", 1},
		{"ontology_annotations", 1},
		{"gene_domains", 1},
		{"gene_families", 1},
		{"gene_pathways", 1},
		{"publications", 2},
		{"data_sources", 1},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			n, err := s.Count(tt.table, sinktest.Collection)
			require.NoError(t, err)
			assert.Equal(t, tt.rows, n)
		})
	}

	var start, end int64
	require.NoError(t, s.DB().QueryRow(`SELECT start_pos, end_pos FROM genes`).Scan(&start, &end))
	assert.Equal(t, int64(1), start)
	assert.Equal(t, int64(1000), end)

	var geneID string
	err := s.DB().QueryRow(`SELECT gene_id FROM transcripts WHERE id = ?`, "sp.strA.gnm1.ann1.G1.1").Scan(&geneID)
	require.NoError(t, err)
	assert.Equal(t, "sp.strA.gnm1.ann1.G1", geneID)

	var score any
	require.NoError(t, s.DB().QueryRow(`SELECT score FROM gene_families`).Scan(&score))
	assert.Nil(t, score)
}

func TestWrite_ReplacesCollection(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, sinktest.Batch()))
	require.NoError(t, s.Write(ctx, sinktest.Batch()))

	n, err := s.Count("genes", sinktest.Collection)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	collections, err := s.Collections()
	require.NoError(t, err)
	assert.Equal(t, []string{sinktest.Collection}, collections)
}
