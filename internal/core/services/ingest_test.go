package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docentlabs/corpusqa/internal/chunker"
	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven/mocks"
)

func newTestIngestService(t *testing.T, loader *mocks.MockCorpusLoader, index *mocks.MockVectorIndex, embedding *mocks.MockEmbeddingService, lock driven.DistributedLock) *ingestService {
	t.Helper()
	ck, err := chunker.New(chunker.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc := NewIngestService(IngestServiceConfig{
		Loader:    loader,
		Chunker:   ck,
		Index:     index,
		Services:  createTestServices(embedding, nil),
		Lock:      lock,
		CorpusDir: "./training-data",
		IndexDir:  "./data/index",
	})
	return svc.(*ingestService)
}

func TestIngestService_EmptyCorpus(t *testing.T) {
	loader := mocks.NewMockCorpusLoader()
	index := mocks.NewMockVectorIndex()
	svc := newTestIngestService(t, loader, index, mocks.NewMockEmbeddingService(), nil)

	_, err := svc.Ingest(context.Background())
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
	if len(index.SavedDirs()) != 0 {
		t.Error("nothing should be persisted for an empty corpus")
	}
}

func TestIngestService_Ingest(t *testing.T) {
	loader := mocks.NewMockCorpusLoader()
	loader.AddDocument(domain.Document{
		ID:         "doc-a",
		SourcePath: "training-data/programme.txt",
		Text:       strings.Repeat("a", 1200),
	})
	loader.AddDocument(domain.Document{
		ID:         "doc-b",
		SourcePath: "training-data/admissions.txt",
		Text:       strings.Repeat("b", 300),
	})
	loader.SetSkipped([]string{"training-data/broken.bin"})

	index := mocks.NewMockVectorIndex()
	embedding := mocks.NewMockEmbeddingService()
	svc := newTestIngestService(t, loader, index, embedding, nil)

	result, err := svc.Ingest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1200 uniform chars chunk as [0,500) [450,950) [900,1200); the
	// short document fits in one chunk.
	if result.Documents != 2 {
		t.Errorf("expected 2 documents, got %d", result.Documents)
	}
	if result.Chunks != 4 {
		t.Errorf("expected 4 chunks, got %d", result.Chunks)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "training-data/broken.bin" {
		t.Errorf("unexpected skipped list: %v", result.Skipped)
	}

	entries := index.Entries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 index entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.ChunkID == "" || entry.Text == "" {
			t.Errorf("entry %d missing chunk id or text: %+v", i, entry)
		}
		if len(entry.Vector) != embedding.Dimensions() {
			t.Errorf("entry %d has %d dimensions, want %d", i, len(entry.Vector), embedding.Dimensions())
		}
	}
	if entries[0].Source != "training-data/programme.txt" {
		t.Errorf("unexpected source on first entry: %q", entries[0].Source)
	}
	if index.Model() != embedding.Model() {
		t.Errorf("index model %q, want %q", index.Model(), embedding.Model())
	}

	saved := index.SavedDirs()
	if len(saved) != 1 || saved[0] != "./data/index" {
		t.Errorf("expected one save to ./data/index, got %v", saved)
	}
}

func TestIngestService_LockDenied(t *testing.T) {
	loader := mocks.NewMockCorpusLoader()
	loader.AddDocument(domain.Document{ID: "doc-a", SourcePath: "a.txt", Text: "some text"})
	lock := mocks.NewMockDistributedLock()
	lock.SetDenyNext()
	index := mocks.NewMockVectorIndex()
	svc := newTestIngestService(t, loader, index, mocks.NewMockEmbeddingService(), lock)

	_, err := svc.Ingest(context.Background())
	if !errors.Is(err, domain.ErrIngestInProgress) {
		t.Errorf("expected ErrIngestInProgress, got %v", err)
	}
	if len(index.SavedDirs()) != 0 {
		t.Error("denied ingest must not touch the index")
	}
}

func TestIngestService_LockReleased(t *testing.T) {
	loader := mocks.NewMockCorpusLoader()
	loader.AddDocument(domain.Document{ID: "doc-a", SourcePath: "a.txt", Text: "some text"})
	lock := mocks.NewMockDistributedLock()
	svc := newTestIngestService(t, loader, mocks.NewMockVectorIndex(), mocks.NewMockEmbeddingService(), lock)

	if _, err := svc.Ingest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	releases := lock.Releases()
	if len(releases) != 1 || releases[0] != "index-write" {
		t.Errorf("expected the index-write lock released once, got %v", releases)
	}
}

func TestIngestService_EmbedFailure(t *testing.T) {
	loader := mocks.NewMockCorpusLoader()
	loader.AddDocument(domain.Document{ID: "doc-a", SourcePath: "a.txt", Text: "some text"})
	embedding := mocks.NewMockEmbeddingService()
	embedding.SetFailNext(domain.ErrProviderUnavailable)
	index := mocks.NewMockVectorIndex()
	svc := newTestIngestService(t, loader, index, embedding, nil)

	_, err := svc.Ingest(context.Background())
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
	if len(index.SavedDirs()) != 0 {
		t.Error("nothing should be persisted when embedding fails")
	}
}

func TestIngestService_Batching(t *testing.T) {
	loader := mocks.NewMockCorpusLoader()
	// Enough text for well over one batch of chunks at batch size 2.
	loader.AddDocument(domain.Document{
		ID:         "doc-a",
		SourcePath: "a.txt",
		Text:       strings.Repeat("a", 2500),
	})
	embedding := mocks.NewMockEmbeddingService()
	index := mocks.NewMockVectorIndex()
	ck, err := chunker.New(chunker.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc := NewIngestService(IngestServiceConfig{
		Loader:    loader,
		Chunker:   ck,
		Index:     index,
		Services:  createTestServices(embedding, nil),
		CorpusDir: "./training-data",
		IndexDir:  "./data/index",
		BatchSize: 2,
	})

	result, err := svc.Ingest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2500 uniform chars chunk into 6 pieces, so batch size 2 means
	// three embedding calls.
	if embedding.Calls() != 3 {
		t.Errorf("expected 3 embedding calls, got %d", embedding.Calls())
	}
	if len(index.Entries()) != result.Chunks {
		t.Errorf("entries %d != chunks %d", len(index.Entries()), result.Chunks)
	}
}
