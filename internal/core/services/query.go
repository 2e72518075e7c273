package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
	"github.com/docentlabs/corpusqa/internal/core/ports/driving"
	"github.com/docentlabs/corpusqa/internal/runtime"
)

// Ensure queryService implements QueryService
var _ driving.QueryService = (*queryService)(nil)

// DefaultTopK is how many chunks ground each answer in the reference
// deployment.
const DefaultTopK = 3

// queryLogTimeout bounds the background log append so a stuck log
// backend cannot pile up goroutines.
const queryLogTimeout = 5 * time.Second

// QueryServiceConfig wires the query engine's collaborators.
type QueryServiceConfig struct {
	Index       driven.VectorIndex
	Services    *runtime.Services
	Synthesizer *Synthesizer
	QueryLog    driven.QueryLog // optional
	TopK        int
	Logger      *slog.Logger
}

// queryService implements the QueryService interface. Each query is a
// self-contained embed, retrieve, synthesize sequence over the
// immutable loaded index, so concurrent queries need no
// synchronisation here.
type queryService struct {
	index       driven.VectorIndex
	services    *runtime.Services
	synthesizer *Synthesizer
	queryLog    driven.QueryLog
	topK        int
	logger      *slog.Logger

	logWG sync.WaitGroup
}

// NewQueryService creates a new QueryService
func NewQueryService(cfg QueryServiceConfig) driving.QueryService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &queryService{
		index:       cfg.Index,
		services:    cfg.Services,
		synthesizer: cfg.Synthesizer,
		queryLog:    cfg.QueryLog,
		topK:        cfg.TopK,
		logger:      cfg.Logger,
	}
}

// Query answers one question against the loaded index.
func (s *queryService) Query(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	// The engine never builds an index lazily; queries against a known
	// corpus snapshot stay cheap and deterministic.
	if !s.index.Loaded() {
		return nil, domain.ErrIndexNotLoaded
	}

	embedding := s.services.EmbeddingService()
	if embedding == nil {
		return nil, fmt.Errorf("no embedding service configured: %w", domain.ErrProviderUnavailable)
	}

	queryVector, err := embedding.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	// Zero retrieved chunks (corrupted load, nothing similar) falls
	// through to the synthesizer's no-context path instead of failing.
	retrieved, err := s.index.Search(queryVector, s.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	answer, err := s.synthesizer.Synthesize(ctx, question, retrieved)
	if err != nil {
		return nil, err
	}

	if s.queryLog != nil {
		s.logWG.Add(1)
		go s.record(question, answer.Text)
	}

	return answer, nil
}

// Stats returns entry count and embedding metadata of the loaded index.
func (s *queryService) Stats() driving.IndexStats {
	return driving.IndexStats{
		Entries:    s.index.Len(),
		Dimensions: s.index.Dimensions(),
		Model:      s.index.Model(),
	}
}

// record appends the Q&A pair to the audit log in the background. Log
// failures are reported, never surfaced as query failures.
func (s *queryService) record(question, answer string) {
	defer s.logWG.Done()

	ctx, cancel := context.WithTimeout(context.Background(), queryLogTimeout)
	defer cancel()

	entry := domain.QueryLogEntry{
		Timestamp: time.Now().UTC(),
		Question:  question,
		Answer:    answer,
	}
	if err := s.queryLog.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record query", "error", err)
	}
}
