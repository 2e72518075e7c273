package vectorstore

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/docentlabs/corpusqa/internal/core/domain"
)

func entry(id string, vector []float32) domain.IndexEntry {
	return domain.IndexEntry{
		ChunkID: id,
		Vector:  vector,
		Text:    "text for " + id,
		Source:  id + ".txt",
	}
}

func TestStore_BuildRejectsMixedDimensions(t *testing.T) {
	store := New()
	err := store.Build("test-model", []domain.IndexEntry{
		entry("a", []float32{1, 0, 0}),
		entry("b", []float32{1, 0}),
	})
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if store.Loaded() {
		t.Error("a failed build must not mark the index loaded")
	}
}

func TestStore_SearchOrdering(t *testing.T) {
	store := New()
	err := store.Build("test-model", []domain.IndexEntry{
		entry("orthogonal", []float32{0, 1, 0}),
		entry("exact", []float32{1, 0, 0}),
		entry("close", []float32{0.9, 0.1, 0}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := store.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Entry.ChunkID != "exact" || results[1].Entry.ChunkID != "close" || results[2].Entry.ChunkID != "orthogonal" {
		t.Errorf("unexpected order: %s, %s, %s",
			results[0].Entry.ChunkID, results[1].Entry.ChunkID, results[2].Entry.ChunkID)
	}
	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("result %d has rank %d", i, r.Rank)
		}
	}
	if results[0].Score < results[1].Score || results[1].Score < results[2].Score {
		t.Error("scores not descending")
	}
}

func TestStore_SearchTiesKeepInsertionOrder(t *testing.T) {
	store := New()
	err := store.Build("test-model", []domain.IndexEntry{
		entry("first", []float32{1, 0}),
		entry("second", []float32{1, 0}),
		entry("third", []float32{1, 0}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := store.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Entry.ChunkID != "first" || results[1].Entry.ChunkID != "second" || results[2].Entry.ChunkID != "third" {
		t.Errorf("equal scores must keep insertion order, got %s, %s, %s",
			results[0].Entry.ChunkID, results[1].Entry.ChunkID, results[2].Entry.ChunkID)
	}
}

func TestStore_SearchClampsK(t *testing.T) {
	store := New()
	err := store.Build("test-model", []domain.IndexEntry{
		entry("a", []float32{1, 0}),
		entry("b", []float32{0, 1}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := store.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestStore_SearchInvalidK(t *testing.T) {
	store := New()
	_ = store.Build("test-model", []domain.IndexEntry{entry("a", []float32{1, 0})})

	_, err := store.Search([]float32{1, 0}, 0)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStore_SearchDimensionMismatch(t *testing.T) {
	store := New()
	_ = store.Build("test-model", []domain.IndexEntry{entry("a", []float32{1, 0, 0})})

	_, err := store.Search([]float32{1, 0}, 1)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestStore_SearchNotLoaded(t *testing.T) {
	store := New()
	_, err := store.Search([]float32{1, 0}, 1)
	if !errors.Is(err, domain.ErrIndexNotLoaded) {
		t.Errorf("expected ErrIndexNotLoaded, got %v", err)
	}
}

func TestStore_SearchEmptyIndex(t *testing.T) {
	store := New()
	if err := store.Build("test-model", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := store.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestStore_LoadMissingDirectory(t *testing.T) {
	store := New()
	err := store.Load(t.TempDir())
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	sizes := []int{1, 5, 50}
	for _, size := range sizes {
		entries := make([]domain.IndexEntry, size)
		for i := range entries {
			entries[i] = entry(string(rune('a'+i%26))+string(rune('0'+i/26)), []float32{
				float32(i) / float32(size),
				float32(size-i) / float32(size),
				0.5,
			})
			entries[i].ChunkID = entries[i].ChunkID + "-" + string(rune('0'+i%10))
		}

		store := New()
		if err := store.Build("test-model", entries); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		dir := t.TempDir()
		if err := store.Save(dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		restored := New()
		if err := restored.Load(dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if restored.Len() != size || restored.Dimensions() != 3 || restored.Model() != "test-model" {
			t.Fatalf("restored index metadata mismatch: len=%d dims=%d model=%q",
				restored.Len(), restored.Dimensions(), restored.Model())
		}

		query := []float32{0.2, 0.7, 0.1}
		want, err := store.Search(query, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := restored.Search(query, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(got) != len(want) {
			t.Fatalf("result count changed after reload: %d vs %d", len(got), len(want))
		}
		for i := range want {
			if got[i].Entry.ChunkID != want[i].Entry.ChunkID {
				t.Errorf("result %d chunk changed after reload: %q vs %q",
					i, got[i].Entry.ChunkID, want[i].Entry.ChunkID)
			}
			if math.Abs(float64(got[i].Score-want[i].Score)) > 1e-6 {
				t.Errorf("result %d score drifted after reload: %v vs %v",
					i, got[i].Score, want[i].Score)
			}
		}
	}
}

func TestStore_LoadRejectsCorruptDimensions(t *testing.T) {
	dir := t.TempDir()
	snapshot := `{"model": "test-model", "dimensions": 3, "count": 1, "entries": [{"chunk_id": "a", "vector": [1, 0], "text": "t", "source": "s"}]}`
	if err := os.WriteFile(filepath.Join(dir, indexFileName), []byte(snapshot), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := New()
	err := store.Load(dir)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if store.Loaded() {
		t.Error("a failed load must not mark the index loaded")
	}
}

func TestStore_LoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, indexFileName), []byte("not json"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := New()
	if err := store.Load(dir); err == nil {
		t.Error("expected error for malformed index file")
	}
}
