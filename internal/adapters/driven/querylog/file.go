package querylog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
)

// Ensure FileLog implements QueryLog
var _ driven.QueryLog = (*FileLog)(nil)

// FileLog appends query log entries to a JSON Lines file. Appends are
// serialized, so concurrent queries never interleave partial lines.
type FileLog struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileLog opens (or creates) the log file at path in append mode.
func NewFileLog(path string) (*FileLog, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open query log %s: %w", path, err)
	}
	return &FileLog{file: file}, nil
}

// Record appends one entry as a JSON line.
func (l *FileLog) Record(ctx context.Context, entry domain.QueryLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("serialize log entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
