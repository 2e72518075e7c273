package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
)

// Ensure DirLoader implements CorpusLoader
var _ driven.CorpusLoader = (*DirLoader)(nil)

// textExtensions are the file types treated as corpus documents.
var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// DirLoader reads a flat directory of plain-text documents. Files that
// cannot be read or have an unsupported extension are reported as
// skipped rather than failing the whole load.
type DirLoader struct{}

// NewDirLoader creates a directory corpus loader.
func NewDirLoader() *DirLoader {
	return &DirLoader{}
}

// Load reads every supported file in dir. The returned documents carry
// the full file path as their source.
func (l *DirLoader) Load(ctx context.Context, dir string) ([]domain.Document, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read corpus directory %s: %w", dir, err)
	}

	var docs []domain.Document
	var skipped []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !textExtensions[ext] {
			skipped = append(skipped, path)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, path)
			continue
		}

		docs = append(docs, domain.Document{
			ID:         uuid.NewString(),
			SourcePath: path,
			Text:       string(data),
		})
	}

	return docs, skipped, nil
}
