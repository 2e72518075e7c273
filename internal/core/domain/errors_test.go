package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrIndexNotLoaded", ErrIndexNotLoaded, "index not loaded"},
		{"ErrIndexNotFound", ErrIndexNotFound, "index not found"},
		{"ErrEmptyCorpus", ErrEmptyCorpus, "empty corpus"},
		{"ErrDimensionMismatch", ErrDimensionMismatch, "embedding dimension mismatch"},
		{"ErrModelMismatch", ErrModelMismatch, "embedding model mismatch"},
		{"ErrInvalidChunkConfig", ErrInvalidChunkConfig, "invalid chunk configuration"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrInvalidProvider", ErrInvalidProvider, "invalid provider"},
		{"ErrProviderUnavailable", ErrProviderUnavailable, "provider unavailable"},
		{"ErrProviderRejected", ErrProviderRejected, "provider rejected request"},
		{"ErrIngestInProgress", ErrIngestInProgress, "ingest already in progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsWrapCorrectly(t *testing.T) {
	wrapped := fmt.Errorf("load index from /tmp/idx: %w", ErrIndexNotFound)

	if !errors.Is(wrapped, ErrIndexNotFound) {
		t.Error("expected wrapped error to match ErrIndexNotFound")
	}
	if errors.Is(wrapped, ErrIndexNotLoaded) {
		t.Error("wrapped error should not match a different sentinel")
	}
}
