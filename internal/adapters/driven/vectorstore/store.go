package vectorstore

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
)

// Ensure Store implements VectorIndex
var _ driven.VectorIndex = (*Store)(nil)

// indexFileName is the on-disk snapshot inside the index directory.
const indexFileName = "index.json"

// Store is an in-memory vector index over corpus chunks with a JSON
// snapshot on disk. Search is an exact scan; corpora in the thousands
// of chunks stay well under interactive latency.
type Store struct {
	mu         sync.RWMutex
	model      string
	dimensions int
	entries    []domain.IndexEntry
	loaded     bool
}

// indexFile is the serialized snapshot format.
type indexFile struct {
	Model      string              `json:"model"`
	Dimensions int                 `json:"dimensions"`
	Count      int                 `json:"count"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Entries    []domain.IndexEntry `json:"entries"`
}

// New creates an empty, unloaded store.
func New() *Store {
	return &Store{}
}

// Build replaces the index contents with the given entries. All vectors
// must share one dimension.
func (s *Store) Build(model string, entries []domain.IndexEntry) error {
	dimensions := 0
	for i, entry := range entries {
		if len(entry.Vector) == 0 {
			return fmt.Errorf("%w: entry %d has no vector", domain.ErrDimensionMismatch, i)
		}
		if dimensions == 0 {
			dimensions = len(entry.Vector)
		} else if len(entry.Vector) != dimensions {
			return fmt.Errorf("%w: entry %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, i, len(entry.Vector), dimensions)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
	s.dimensions = dimensions
	s.entries = entries
	s.loaded = true
	return nil
}

// Search returns the k entries most similar to the query vector by
// cosine similarity, best first. k larger than the index is clamped;
// equal scores keep insertion order.
func (s *Store) Search(queryVector []float32, k int) ([]domain.RetrievedChunk, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, domain.ErrIndexNotLoaded
	}
	if len(s.entries) == 0 {
		return nil, nil
	}
	if len(queryVector) != s.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(queryVector), s.dimensions)
	}

	scored := make([]domain.RetrievedChunk, len(s.entries))
	for i, entry := range s.entries {
		scored[i] = domain.RetrievedChunk{
			Entry: entry,
			Score: cosine(queryVector, entry.Vector),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	results := scored[:k]
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// Save writes a snapshot of the index into dir.
func (s *Store) Save(dir string) error {
	s.mu.RLock()
	snapshot := indexFile{
		Model:      s.model,
		Dimensions: s.dimensions,
		Count:      len(s.entries),
		UpdatedAt:  time.Now().UTC(),
		Entries:    s.entries,
	}
	s.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("serialize index: %w", err)
	}

	path := filepath.Join(dir, indexFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}
	return nil
}

// Load reads a snapshot from dir, replacing the index contents.
func (s *Store) Load(dir string) error {
	path := filepath.Join(dir, indexFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrIndexNotFound, path)
		}
		return fmt.Errorf("read index file: %w", err)
	}

	var snapshot indexFile
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("parse index file %s: %w", path, err)
	}

	for i, entry := range snapshot.Entries {
		if len(entry.Vector) != snapshot.Dimensions {
			return fmt.Errorf("%w: entry %d has %d dimensions, file declares %d",
				domain.ErrDimensionMismatch, i, len(entry.Vector), snapshot.Dimensions)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = snapshot.Model
	s.dimensions = snapshot.Dimensions
	s.entries = snapshot.Entries
	s.loaded = true
	return nil
}

// Loaded reports whether the index holds a built or loaded snapshot.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Len returns the number of indexed entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Dimensions returns the vector dimension of the index.
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimensions
}

// Model returns the embedding model the index was built with.
func (s *Store) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// cosine computes cosine similarity with float64 accumulation to keep
// results stable across vector lengths.
func cosine(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
