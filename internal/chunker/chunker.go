package chunker

import (
	"fmt"
	"strings"

	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Chunker = (*Chunker)(nil)

// Config configures the chunker behavior.
type Config struct {
	// ChunkSize is the maximum characters per chunk
	ChunkSize int

	// Overlap is the character overlap between consecutive chunks.
	// Must be strictly less than ChunkSize.
	Overlap int
}

// DefaultConfig returns the reference deployment configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 500,
		Overlap:   50,
	}
}

// breakWindow is how far back from the size limit the chunker looks
// for a natural boundary before falling back to a hard cut.
const breakWindow = 100

// Chunker splits documents into bounded, overlapping chunks. It
// prefers the largest natural boundary that keeps a chunk within
// ChunkSize: paragraph break first, then sentence end, then word
// boundary, then a raw character cut.
type Chunker struct {
	config Config
}

// New creates a chunker, validating the configuration. Overlap equal
// to or larger than ChunkSize cannot make progress and fails fast
// instead of being clamped.
func New(config Config) (*Chunker, error) {
	if config.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidChunkConfig, config.ChunkSize)
	}
	if config.Overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", domain.ErrInvalidChunkConfig, config.Overlap)
	}
	if config.Overlap >= config.ChunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidChunkConfig, config.Overlap, config.ChunkSize)
	}
	return &Chunker{config: config}, nil
}

// Chunk splits one document. A document shorter than ChunkSize yields
// exactly one chunk. Offsets index into the document text, so the
// ordered chunks with their overlap removed reassemble the document
// exactly.
func (c *Chunker) Chunk(doc domain.Document) ([]domain.Chunk, error) {
	text := doc.Text
	if text == "" {
		return nil, nil
	}

	if len(text) <= c.config.ChunkSize {
		return []domain.Chunk{c.newChunk(doc, 0, 0, len(text))}, nil
	}

	var chunks []domain.Chunk
	start := 0

	for start < len(text) {
		end := start + c.config.ChunkSize
		if end > len(text) {
			end = len(text)
		}

		// Prefer a natural boundary when this is not the final chunk
		if end < len(text) {
			if bp := c.findBreakPoint(text, start, end); bp > start {
				end = bp
			}
		}

		chunks = append(chunks, c.newChunk(doc, len(chunks), start, end))

		if end >= len(text) {
			break
		}

		// Step back by the overlap, always advancing
		next := end - c.config.Overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks, nil
}

func (c *Chunker) newChunk(doc domain.Document, position, start, end int) domain.Chunk {
	return domain.Chunk{
		ID:          fmt.Sprintf("%s-chunk-%d", doc.ID, position),
		DocumentID:  doc.ID,
		Source:      doc.SourcePath,
		Text:        doc.Text[start:end],
		StartOffset: start,
		EndOffset:   end,
	}
}

// findBreakPoint finds the best cut position in (start, maxEnd],
// scanning only the tail of the candidate chunk.
func (c *Chunker) findBreakPoint(text string, start, maxEnd int) int {
	searchStart := maxEnd - breakWindow
	if searchStart < start {
		searchStart = start
	}
	window := text[searchStart:maxEnd]

	// Paragraph boundary (double newline)
	if idx := strings.LastIndex(window, "\n\n"); idx != -1 {
		return searchStart + idx + 2
	}

	// Sentence boundary
	sentenceEnders := []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}
	best := -1
	for _, ender := range sentenceEnders {
		if idx := strings.LastIndex(window, ender); idx != -1 {
			if end := idx + len(ender); end > best {
				best = end
			}
		}
	}
	if best > 0 {
		return searchStart + best
	}

	// Word boundary
	if idx := strings.LastIndex(window, " "); idx != -1 {
		return searchStart + idx + 1
	}

	// No natural boundary, hard cut
	return maxEnd
}
