package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/runtime"
)

// NoInformationSentinel is the reply the model is instructed to give
// when the retrieved context does not cover the question. Kept
// bit-identical across deployments so collaborators can detect it.
const NoInformationSentinel = "I don't have that information in my knowledge base."

// DefaultExcerptLength bounds source excerpts in citations.
const DefaultExcerptLength = 150

// SynthesizerConfig configures prompt construction.
type SynthesizerConfig struct {
	// Language the model is told to answer in; empty omits the instruction.
	Language string

	// ExcerptLength bounds the excerpt attached to each source citation.
	ExcerptLength int
}

// DefaultSynthesizerConfig returns the reference deployment configuration.
func DefaultSynthesizerConfig() SynthesizerConfig {
	return SynthesizerConfig{
		Language:      "Dutch",
		ExcerptLength: DefaultExcerptLength,
	}
}

// Synthesizer turns a question plus retrieved chunks into a grounded
// answer: it builds the structured prompt, runs one blocking
// generation call, and parses the completion into answer, follow-ups
// and source citations.
type Synthesizer struct {
	services *runtime.Services
	config   SynthesizerConfig
	logger   *slog.Logger
}

// NewSynthesizer creates a Synthesizer.
// The generation service is resolved per call via runtime.Services.
func NewSynthesizer(services *runtime.Services, config SynthesizerConfig, logger *slog.Logger) *Synthesizer {
	if config.ExcerptLength <= 0 {
		config.ExcerptLength = DefaultExcerptLength
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		services: services,
		config:   config,
		logger:   logger,
	}
}

// Synthesize answers one question from the retrieved chunks. Zero
// retrieved chunks is not an error: the prompt simply carries no
// context and the model falls back to the no-information sentinel.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, retrieved []domain.RetrievedChunk) (*domain.Answer, error) {
	generation := s.services.GenerationService()
	if generation == nil {
		return nil, fmt.Errorf("no generation service configured: %w", domain.ErrProviderUnavailable)
	}

	prompt := s.buildPrompt(question, retrieved)

	raw, err := generation.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	text, followUps := domain.ParseCompletion(raw)
	if followUps == nil {
		followUps = []string{}
	}

	sources := make([]domain.SourceRef, 0, len(retrieved))
	for _, rc := range retrieved {
		sources = append(sources, domain.SourceRef{
			Source:  rc.Entry.Source,
			Excerpt: domain.Excerpt(rc.Entry.Text, s.config.ExcerptLength),
		})
	}

	return &domain.Answer{
		Text:      text,
		FollowUps: followUps,
		Sources:   sources,
	}, nil
}

// buildPrompt assembles the fixed instruction preamble, the retrieved
// context and the question into one prompt.
func (s *Synthesizer) buildPrompt(question string, retrieved []domain.RetrievedChunk) string {
	contexts := make([]string, 0, len(retrieved))
	for _, rc := range retrieved {
		contexts = append(contexts, rc.Entry.Text)
	}

	var b strings.Builder
	b.WriteString("You are a helpful assistant answering questions about a fixed collection of institutional documents.\n\n")
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString("1. Use ONLY the context provided below to answer the question\n")
	b.WriteString("2. If the information is not in the context, respond: \"" + NoInformationSentinel + "\"\n")
	b.WriteString("3. Propose up to 3 follow-up question suggestions to help guide the asker\n")
	b.WriteString("4. Format follow-up questions between <> brackets (e.g., <What are the admission requirements for this program?>)\n")
	b.WriteString("5. Follow-up questions must be phrased as questions the asker can pose next, not questions directed at the asker\n")
	b.WriteString("6. Be specific, helpful, and encouraging in your responses\n")
	if s.config.Language != "" {
		b.WriteString("7. Always answer in " + s.config.Language + "\n")
	}
	b.WriteString("\nCONTEXT:\n")
	b.WriteString(strings.Join(contexts, "\n\n"))
	b.WriteString("\n\nQUESTION:\n")
	b.WriteString(question)
	b.WriteString("\n\nANSWER FORMAT:\n")
	b.WriteString("[Provide a clear, specific answer based on the context]\n\n")
	b.WriteString("FOLLOW-UP SUGGESTIONS:\n")
	b.WriteString("<Follow-up question 1>\n")
	b.WriteString("<Follow-up question 2>\n")
	b.WriteString("<Follow-up question 3>\n\n")
	b.WriteString("Only include follow-up suggestions if you think they would be helpful to the asker.\n\n")
	b.WriteString("Answer:\n")
	return b.String()
}
