package mocks

import (
	"context"
	"hash/fnv"
)

// MockEmbeddingService is a mock implementation of EmbeddingService for testing
type MockEmbeddingService struct {
	dimensions int
	model      string
	failNext   error
	fixed      map[string][]float32
	calls      int
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		dimensions: 8,
		model:      "mock-embedding-model",
		fixed:      make(map[string][]float32),
	}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}

	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.vectorFor(text)
	}
	return result, nil
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	m.calls++
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}
	return m.vectorFor(query), nil
}

func (m *MockEmbeddingService) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	return nil
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

// vectorFor returns the pinned vector for a text if one was set,
// otherwise a deterministic pseudo-random embedding from the text hash
func (m *MockEmbeddingService) vectorFor(text string) []float32 {
	if v, ok := m.fixed[text]; ok {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}

	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		seed = seed*1103515245 + 12345
		embedding[i] = float32(seed%1000) / 1000.0
	}
	return embedding
}

// Helper methods for testing

// SetVector pins the embedding returned for an exact text, letting
// tests steer retrieval outcomes.
func (m *MockEmbeddingService) SetVector(text string, vector []float32) {
	m.fixed[text] = vector
}

func (m *MockEmbeddingService) SetDimensions(d int) {
	m.dimensions = d
}

func (m *MockEmbeddingService) SetFailNext(err error) {
	m.failNext = err
}

func (m *MockEmbeddingService) Calls() int {
	return m.calls
}
