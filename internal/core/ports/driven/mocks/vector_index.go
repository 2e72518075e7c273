package mocks

import (
	"math"
	"sort"

	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// MockVectorIndex is an in-memory mock of VectorIndex for testing.
// It ranks by real cosine similarity so service tests see realistic
// retrieval ordering, but skips persistence entirely.
type MockVectorIndex struct {
	model      string
	entries    []domain.IndexEntry
	loaded     bool
	saveErr    error
	searchErr  error
	savedDirs  []string
	loadedDirs []string
	lastK      int
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{}
}

func (m *MockVectorIndex) Build(model string, entries []domain.IndexEntry) error {
	m.model = model
	m.entries = entries
	m.loaded = true
	return nil
}

func (m *MockVectorIndex) Search(queryVector []float32, k int) ([]domain.RetrievedChunk, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(m.entries) == 0 {
		return nil, nil
	}
	if k > len(m.entries) {
		k = len(m.entries)
	}

	results := make([]domain.RetrievedChunk, 0, len(m.entries))
	for _, e := range m.entries {
		results = append(results, domain.RetrievedChunk{
			Entry: e,
			Score: cosine(queryVector, e.Vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	results = results[:k]
	for i := range results {
		results[i].Rank = i + 1
	}
	m.lastK = k
	return results, nil
}

func (m *MockVectorIndex) Save(dir string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedDirs = append(m.savedDirs, dir)
	return nil
}

func (m *MockVectorIndex) Load(dir string) error {
	m.loadedDirs = append(m.loadedDirs, dir)
	m.loaded = true
	return nil
}

func (m *MockVectorIndex) Loaded() bool {
	return m.loaded
}

func (m *MockVectorIndex) Len() int {
	return len(m.entries)
}

func (m *MockVectorIndex) Dimensions() int {
	if len(m.entries) == 0 {
		return 0
	}
	return len(m.entries[0].Vector)
}

func (m *MockVectorIndex) Model() string {
	return m.model
}

// Helper methods for testing

func (m *MockVectorIndex) SetLoaded(loaded bool) {
	m.loaded = loaded
}

func (m *MockVectorIndex) SetSaveError(err error) {
	m.saveErr = err
}

func (m *MockVectorIndex) SetSearchError(err error) {
	m.searchErr = err
}

func (m *MockVectorIndex) SavedDirs() []string {
	return m.savedDirs
}

func (m *MockVectorIndex) Entries() []domain.IndexEntry {
	return m.entries
}

func (m *MockVectorIndex) LastK() int {
	return m.lastK
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return float32(dot / denom)
}
