package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
	"github.com/docentlabs/corpusqa/internal/core/ports/driving"
	"github.com/docentlabs/corpusqa/internal/runtime"
)

// Ensure ingestService implements IngestService
var _ driving.IngestService = (*ingestService)(nil)

// DefaultEmbedBatchSize caps how many chunk texts go into one
// embedding request.
const DefaultEmbedBatchSize = 64

const (
	ingestLockName = "index-write"
	ingestLockTTL  = 10 * time.Minute
)

// IngestServiceConfig wires the ingestor's collaborators.
type IngestServiceConfig struct {
	Loader    driven.CorpusLoader
	Chunker   driven.Chunker
	Index     driven.VectorIndex
	Services  *runtime.Services
	Lock      driven.DistributedLock // optional
	CorpusDir string
	IndexDir  string
	BatchSize int
	Logger    *slog.Logger
}

// ingestService implements the IngestService interface
type ingestService struct {
	loader    driven.CorpusLoader
	chunker   driven.Chunker
	index     driven.VectorIndex
	services  *runtime.Services
	lock      driven.DistributedLock
	corpusDir string
	indexDir  string
	batchSize int
	logger    *slog.Logger
}

// NewIngestService creates a new IngestService
func NewIngestService(cfg IngestServiceConfig) driving.IngestService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultEmbedBatchSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ingestService{
		loader:    cfg.Loader,
		chunker:   cfg.Chunker,
		index:     cfg.Index,
		services:  cfg.Services,
		lock:      cfg.Lock,
		corpusDir: cfg.CorpusDir,
		indexDir:  cfg.IndexDir,
		batchSize: cfg.BatchSize,
		logger:    cfg.Logger,
	}
}

// Ingest reads the corpus directory, chunks and embeds every
// document, builds the vector index and persists it. Partial document
// failures are skipped and reported; an empty corpus aborts without
// writing anything.
func (s *ingestService) Ingest(ctx context.Context) (*domain.IngestResult, error) {
	start := time.Now()

	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, ingestLockName, ingestLockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire ingest lock: %w", err)
		}
		if !acquired {
			return nil, domain.ErrIngestInProgress
		}
		defer func() {
			if err := s.lock.Release(context.Background(), ingestLockName); err != nil {
				s.logger.Warn("failed to release ingest lock", "error", err)
			}
		}()
	}

	docs, skipped, err := s.loader.Load(ctx, s.corpusDir)
	if err != nil {
		return nil, fmt.Errorf("load corpus from %s: %w", s.corpusDir, err)
	}
	for _, path := range skipped {
		s.logger.Warn("skipping unreadable file", "path", path)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no readable documents in %s", domain.ErrEmptyCorpus, s.corpusDir)
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		docChunks, err := s.chunker.Chunk(doc)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", doc.SourcePath, err)
		}
		chunks = append(chunks, docChunks...)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: documents in %s contained no text", domain.ErrEmptyCorpus, s.corpusDir)
	}
	s.logger.Info("corpus chunked", "documents", len(docs), "chunks", len(chunks))

	embedding := s.services.EmbeddingService()
	if embedding == nil {
		return nil, fmt.Errorf("no embedding service configured: %w", domain.ErrProviderUnavailable)
	}

	vectors, err := s.embedChunks(ctx, embedding, chunks)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = domain.IndexEntry{
			ChunkID: chunk.ID,
			Vector:  vectors[i],
			Text:    chunk.Text,
			Source:  chunk.Source,
		}
	}

	if err := s.index.Build(embedding.Model(), entries); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if err := s.index.Save(s.indexDir); err != nil {
		return nil, fmt.Errorf("save index to %s: %w", s.indexDir, err)
	}

	result := &domain.IngestResult{
		Documents: len(docs),
		Chunks:    len(chunks),
		Skipped:   skipped,
		Took:      time.Since(start),
	}
	s.logger.Info("ingest complete",
		"documents", result.Documents,
		"chunks", result.Chunks,
		"skipped", len(result.Skipped),
		"took", result.Took)
	return result, nil
}

// embedChunks runs one logical embedding pass over all chunk texts,
// batched for throughput. A short batch response aborts the whole run
// so the chunk-to-vector pairing can never drift.
func (s *ingestService) embedChunks(ctx context.Context, embedding driven.EmbeddingService, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for batchStart := 0; batchStart < len(chunks); batchStart += s.batchSize {
		batchEnd := batchStart + s.batchSize
		if batchEnd > len(chunks) {
			batchEnd = len(chunks)
		}

		texts := make([]string, 0, batchEnd-batchStart)
		for _, chunk := range chunks[batchStart:batchEnd] {
			texts = append(texts, chunk.Text)
		}

		batch, err := embedding.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", batchStart, batchEnd, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedding batch returned %d vectors for %d texts", len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}
