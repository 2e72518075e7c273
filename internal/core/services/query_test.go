package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven/mocks"
)

func newTestQueryService(t *testing.T, index *mocks.MockVectorIndex, embedding *mocks.MockEmbeddingService, generation *mocks.MockGenerationService, queryLog *mocks.MockQueryLog) *queryService {
	t.Helper()
	services := createTestServices(embedding, generation)
	svc := NewQueryService(QueryServiceConfig{
		Index:       index,
		Services:    services,
		Synthesizer: NewSynthesizer(services, SynthesizerConfig{Language: ""}, nil),
		QueryLog:    queryLog,
	})
	return svc.(*queryService)
}

func TestQueryService_IndexNotLoaded(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	svc := newTestQueryService(t, index, mocks.NewMockEmbeddingService(), mocks.NewMockGenerationService(), nil)

	_, err := svc.Query(context.Background(), "Is there a part-time programme?")
	if !errors.Is(err, domain.ErrIndexNotLoaded) {
		t.Errorf("expected ErrIndexNotLoaded, got %v", err)
	}
}

func TestQueryService_EmptyQuestion(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	index.SetLoaded(true)
	svc := newTestQueryService(t, index, mocks.NewMockEmbeddingService(), mocks.NewMockGenerationService(), nil)

	_, err := svc.Query(context.Background(), "   ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestQueryService_EmbedFailure(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	index.SetLoaded(true)
	embedding := mocks.NewMockEmbeddingService()
	embedding.SetFailNext(domain.ErrProviderUnavailable)
	svc := newTestQueryService(t, index, embedding, mocks.NewMockGenerationService(), nil)

	_, err := svc.Query(context.Background(), "A question?")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}

func TestQueryService_Query(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	embedding := mocks.NewMockEmbeddingService()
	generation := mocks.NewMockGenerationService()
	generation.SetResponse("Four years. FOLLOW-UP SUGGESTIONS: <What does the first year cover?>")
	queryLog := mocks.NewMockQueryLog()
	svc := newTestQueryService(t, index, embedding, generation, queryLog)

	// Steer retrieval: the question embedding points at the duration chunk.
	question := "How long does the programme take?"
	embedding.SetVector(question, []float32{1, 0, 0, 0, 0, 0, 0, 0})
	embedding.SetVector("chunk about duration", []float32{0.9, 0.1, 0, 0, 0, 0, 0, 0})
	embedding.SetVector("chunk about locations", []float32{0, 1, 0, 0, 0, 0, 0, 0})

	entries := []domain.IndexEntry{
		{ChunkID: "c1", Vector: []float32{0, 1, 0, 0, 0, 0, 0, 0}, Text: "chunk about locations", Source: "locations.txt"},
		{ChunkID: "c2", Vector: []float32{0.9, 0.1, 0, 0, 0, 0, 0, 0}, Text: "chunk about duration", Source: "duration.txt"},
	}
	if err := index.Build("mock-embedding-model", entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answer, err := svc.Query(context.Background(), question)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer.Text != "Four years." {
		t.Errorf("unexpected answer: %q", answer.Text)
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(answer.Sources))
	}
	if answer.Sources[0].Source != "duration.txt" {
		t.Errorf("expected most similar chunk cited first, got %q", answer.Sources[0].Source)
	}

	// The Q&A pair lands in the audit log in the background.
	svc.logWG.Wait()
	logged := queryLog.Entries()
	if len(logged) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logged))
	}
	if logged[0].Question != question || logged[0].Answer != "Four years." {
		t.Errorf("unexpected log entry: %+v", logged[0])
	}
	if logged[0].Timestamp.IsZero() {
		t.Error("expected the log entry timestamp to be set")
	}
}

func TestQueryService_LogFailureNeverSurfaces(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	index.SetLoaded(true)
	queryLog := mocks.NewMockQueryLog()
	queryLog.SetError(errors.New("disk full"))
	svc := newTestQueryService(t, index, mocks.NewMockEmbeddingService(), mocks.NewMockGenerationService(), queryLog)

	answer, err := svc.Query(context.Background(), "A question?")
	if err != nil {
		t.Fatalf("query must not fail on log errors, got %v", err)
	}
	if answer == nil {
		t.Fatal("expected an answer despite log failure")
	}
	svc.logWG.Wait()
}

func TestQueryService_EmptyIndexTakesNoContextPath(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	index.SetLoaded(true)
	generation := mocks.NewMockGenerationService()
	generation.SetResponse(NoInformationSentinel)
	svc := newTestQueryService(t, index, mocks.NewMockEmbeddingService(), generation, nil)

	answer, err := svc.Query(context.Background(), "Anything at all?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Text != NoInformationSentinel {
		t.Errorf("unexpected answer: %q", answer.Text)
	}
	if len(answer.Sources) != 0 {
		t.Errorf("expected no sources, got %v", answer.Sources)
	}
}

func TestQueryService_Stats(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	_ = index.Build("mock-embedding-model", []domain.IndexEntry{
		{ChunkID: "c1", Vector: []float32{1, 0}, Text: "t", Source: "s"},
	})
	svc := newTestQueryService(t, index, mocks.NewMockEmbeddingService(), mocks.NewMockGenerationService(), nil)

	stats := svc.Stats()
	if stats.Entries != 1 || stats.Dimensions != 2 || stats.Model != "mock-embedding-model" {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestQueryService_TopKDefault(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	embedding := mocks.NewMockEmbeddingService()
	entries := make([]domain.IndexEntry, 5)
	for i := range entries {
		entries[i] = domain.IndexEntry{
			ChunkID: strings.Repeat("c", i+1),
			Vector:  embeddingVector(i),
			Text:    "text",
			Source:  "doc.txt",
		}
	}
	_ = index.Build("mock-embedding-model", entries)
	svc := newTestQueryService(t, index, embedding, mocks.NewMockGenerationService(), nil)

	answer, err := svc.Query(context.Background(), "A question?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answer.Sources) != DefaultTopK {
		t.Errorf("expected %d sources, got %d", DefaultTopK, len(answer.Sources))
	}
}

func embeddingVector(seed int) []float32 {
	v := make([]float32, 8)
	v[seed%8] = 1
	return v
}
