package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrIndexNotLoaded indicates a query arrived before an index was loaded
	ErrIndexNotLoaded = errors.New("index not loaded")

	// ErrIndexNotFound indicates no persisted index exists at the configured location
	ErrIndexNotFound = errors.New("index not found")

	// ErrEmptyCorpus indicates the corpus directory contained no readable documents
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrDimensionMismatch indicates vectors of differing dimensions met in one index
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrModelMismatch indicates the index was built with a different embedding model
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrInvalidChunkConfig indicates chunk size/overlap configuration is unusable
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrProviderUnavailable indicates a transient provider failure worth retrying
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderRejected indicates the provider refused the request; retrying cannot help
	ErrProviderRejected = errors.New("provider rejected request")

	// ErrIngestInProgress indicates another ingest run holds the index lock
	ErrIngestInProgress = errors.New("ingest already in progress")
)
