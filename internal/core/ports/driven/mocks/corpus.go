package mocks

import (
	"context"

	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// MockCorpusLoader is a mock implementation of CorpusLoader for testing
type MockCorpusLoader struct {
	docs    []domain.Document
	skipped []string
	err     error
}

// NewMockCorpusLoader creates a new MockCorpusLoader
func NewMockCorpusLoader() *MockCorpusLoader {
	return &MockCorpusLoader{}
}

func (m *MockCorpusLoader) Load(ctx context.Context, dir string) ([]domain.Document, []string, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.docs, m.skipped, nil
}

// Helper methods for testing

func (m *MockCorpusLoader) AddDocument(doc domain.Document) {
	m.docs = append(m.docs, doc)
}

func (m *MockCorpusLoader) SetSkipped(paths []string) {
	m.skipped = paths
}

func (m *MockCorpusLoader) SetError(err error) {
	m.err = err
}
