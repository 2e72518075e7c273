package runtime

import (
	"context"
	"sync"

	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
)

// Services holds the external provider clients for the process
// lifetime. It is constructed once at startup and handed to the
// ingest and query services, so there are no package-level provider
// singletons and tests can substitute doubles.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	embedding  driven.EmbeddingService
	generation driven.GenerationService
}

// NewServices creates an empty Services registry
func NewServices() *Services {
	return &Services{}
}

// EmbeddingService returns the current embedding service (may be nil)
func (s *Services) EmbeddingService() driven.EmbeddingService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embedding
}

// GenerationService returns the current generation service (may be nil)
func (s *Services) GenerationService() driven.GenerationService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// SetEmbeddingService updates the embedding service.
// Closes the old service if present.
func (s *Services) SetEmbeddingService(svc driven.EmbeddingService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embedding != nil {
		_ = s.embedding.Close()
	}
	s.embedding = svc
}

// SetGenerationService updates the generation service.
// Closes the old service if present.
func (s *Services) SetGenerationService(svc driven.GenerationService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != nil {
		_ = s.generation.Close()
	}
	s.generation = svc
}

// ValidateAndSetEmbedding verifies connectivity before installing the
// embedding service, closing it again on failure.
func (s *Services) ValidateAndSetEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc == nil {
		s.SetEmbeddingService(nil)
		return nil
	}
	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return err
	}
	s.SetEmbeddingService(svc)
	return nil
}

// ValidateAndSetGeneration verifies connectivity before installing
// the generation service, closing it again on failure.
func (s *Services) ValidateAndSetGeneration(ctx context.Context, svc driven.GenerationService) error {
	if svc == nil {
		s.SetGenerationService(nil)
		return nil
	}
	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return err
	}
	s.SetGenerationService(svc)
	return nil
}

// Close shuts down all services
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embedding != nil {
		_ = s.embedding.Close()
		s.embedding = nil
	}
	if s.generation != nil {
		_ = s.generation.Close()
		s.generation = nil
	}
	return nil
}
