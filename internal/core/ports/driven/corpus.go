package driven

import (
	"context"

	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// CorpusLoader reads every plain-text document under a directory.
type CorpusLoader interface {
	// Load returns the readable documents plus the paths of files
	// that could not be read. Unreadable files are reported but do
	// not abort the load; a missing directory does.
	Load(ctx context.Context, dir string) (docs []domain.Document, skipped []string, err error)
}
