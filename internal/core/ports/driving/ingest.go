package driving

import (
	"context"

	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// IngestService builds and persists the corpus index: read every
// document in the corpus directory, chunk, embed, index, save.
// Ingestion is a one-shot offline job run before any query traffic.
type IngestService interface {
	Ingest(ctx context.Context) (*domain.IngestResult, error)
}
