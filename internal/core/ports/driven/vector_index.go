package driven

import (
	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// VectorIndex stores chunk vectors with their payload and answers
// nearest-neighbour queries. An index is built once from a full
// ingest run, persisted, and read-only after load, so concurrent
// searches need no synchronisation at the caller.
type VectorIndex interface {
	// Build constructs the index from the given entries, recording
	// the embedding model they were produced with. All vectors must
	// share one dimension; mixed dimensions fail with
	// domain.ErrDimensionMismatch.
	Build(model string, entries []domain.IndexEntry) error

	// Search returns the k entries most similar to the query vector
	// by cosine similarity, descending by score, ties broken by
	// insertion order. k larger than the entry count is clamped.
	// Searching an empty index returns no results, not an error.
	Search(queryVector []float32, k int) ([]domain.RetrievedChunk, error)

	// Save serialises the full entry set plus dimension and model
	// metadata into the given directory.
	Save(dir string) error

	// Load restores a previously saved index. A loaded index must
	// return bit-identical search results to the index it was saved
	// from. Missing files fail with domain.ErrIndexNotFound.
	Load(dir string) error

	// Loaded reports whether the index holds a built or loaded entry set.
	Loaded() bool

	// Len returns the number of entries in the index.
	Len() int

	// Dimensions returns the embedding dimension of the stored vectors.
	Dimensions() int

	// Model returns the embedding model the stored vectors were produced with.
	Model() string
}
