// Package sink defines where finished collections are written and the
// relational layout shared by the database sinks.
package sink

import (
	"context"
	"sync"

	"github.com/inodb/annograph/internal/graph"
)

// Sink receives the finished entity set of a collection.
type Sink interface {
	Write(ctx context.Context, b *graph.Batch) error
	Close() error
}

// Memory keeps batches in memory. It backs dry runs and tests.
type Memory struct {
	mu      sync.Mutex
	batches []*graph.Batch
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Write stores b.
func (m *Memory) Write(_ context.Context, b *graph.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, b)
	return nil
}

// Batches returns the batches written so far.
func (m *Memory) Batches() []*graph.Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*graph.Batch(nil), m.batches...)
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
