package driven

import (
	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// Chunker splits a document into bounded, overlapping chunks suitable
// for embedding and retrieval. Implementations are pure functions
// over the document and their configuration.
type Chunker interface {
	Chunk(doc domain.Document) ([]domain.Chunk, error)
}
