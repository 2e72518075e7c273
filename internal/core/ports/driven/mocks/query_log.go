package mocks

import (
	"context"
	"sync"

	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// MockQueryLog is a mock implementation of QueryLog for testing.
// Thread-safe because the query service records in the background.
type MockQueryLog struct {
	mu      sync.Mutex
	entries []domain.QueryLogEntry
	err     error
}

// NewMockQueryLog creates a new MockQueryLog
func NewMockQueryLog() *MockQueryLog {
	return &MockQueryLog{}
}

func (m *MockQueryLog) Record(ctx context.Context, entry domain.QueryLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockQueryLog) Close() error {
	return nil
}

// Helper methods for testing

func (m *MockQueryLog) Entries() []domain.QueryLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.QueryLogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockQueryLog) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
