package driving

import (
	"context"

	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// IndexStats describes the loaded index.
type IndexStats struct {
	Entries    int    `json:"entries"`
	Dimensions int    `json:"dimensions"`
	Model      string `json:"model"`
}

// QueryService answers natural-language questions against the loaded
// corpus index. Each query is independent: embed the question,
// retrieve the top-k chunks, synthesise a grounded answer.
type QueryService interface {
	// Query answers one question. Fails with domain.ErrIndexNotLoaded
	// if no index has been loaded; the service never builds an index
	// lazily.
	Query(ctx context.Context, question string) (*domain.Answer, error)

	// Stats returns entry count and embedding metadata of the loaded index.
	Stats() IndexStats
}
