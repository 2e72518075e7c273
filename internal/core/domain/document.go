package domain

import "time"

// Document is one corpus file read during ingestion.
// Documents live only for the duration of an ingest run; they are
// never persisted themselves, only their chunks are.
type Document struct {
	ID         string
	SourcePath string
	Text       string
}

// Chunk is a bounded substring of a document, the unit of retrieval.
// Adjacent chunks from the same document overlap by a configured
// number of characters so context survives the cut.
type Chunk struct {
	ID          string
	DocumentID  string
	Source      string
	Text        string
	StartOffset int
	EndOffset   int
}

// IndexEntry pairs a chunk with its embedding vector inside the index.
// Entries are created at build time and never mutated; a rebuild
// replaces the whole entry set.
type IndexEntry struct {
	ChunkID string    `json:"chunk_id"`
	Vector  []float32 `json:"vector"`
	Text    string    `json:"text"`
	Source  string    `json:"source"`
}

// RetrievedChunk is one nearest-neighbour hit for a query vector.
// Rank starts at 1 for the most similar entry.
type RetrievedChunk struct {
	Entry IndexEntry
	Score float32
	Rank  int
}

// QueryLogEntry is one appended Q&A audit record.
type QueryLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
}

// IngestResult summarises a completed ingestion run.
type IngestResult struct {
	Documents int
	Chunks    int
	Skipped   []string
	Took      time.Duration
}
