package driven

import (
	"context"

	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// QueryLog appends Q&A records for audit and analytics.
// Implementations must serialise concurrent appends; a failed append
// never blocks or fails the query that produced it.
type QueryLog interface {
	// Record appends one entry. A zero timestamp is filled in by the
	// implementation.
	Record(ctx context.Context, entry domain.QueryLogEntry) error

	// Close releases resources held by the log
	Close() error
}
