package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docentlabs/corpusqa/internal/core/ports/driven/mocks"
)

func TestServices_EmptyByDefault(t *testing.T) {
	s := NewServices()

	assert.Nil(t, s.EmbeddingService())
	assert.Nil(t, s.GenerationService())
}

func TestServices_SetAndGet(t *testing.T) {
	s := NewServices()
	emb := mocks.NewMockEmbeddingService()
	gen := mocks.NewMockGenerationService()

	s.SetEmbeddingService(emb)
	s.SetGenerationService(gen)

	assert.Equal(t, emb, s.EmbeddingService())
	assert.Equal(t, gen, s.GenerationService())
}

func TestServices_ValidateAndSetEmbedding(t *testing.T) {
	s := NewServices()
	emb := mocks.NewMockEmbeddingService()

	err := s.ValidateAndSetEmbedding(context.Background(), emb)
	require.NoError(t, err)
	assert.Equal(t, emb, s.EmbeddingService())
}

func TestServices_ValidateAndSetEmbedding_Unhealthy(t *testing.T) {
	s := NewServices()
	emb := mocks.NewMockEmbeddingService()
	emb.SetFailNext(errors.New("provider down"))

	err := s.ValidateAndSetEmbedding(context.Background(), emb)
	require.Error(t, err)
	assert.Nil(t, s.EmbeddingService())
}

func TestServices_ValidateAndSetGeneration(t *testing.T) {
	s := NewServices()
	gen := mocks.NewMockGenerationService()

	err := s.ValidateAndSetGeneration(context.Background(), gen)
	require.NoError(t, err)
	assert.Equal(t, gen, s.GenerationService())
}

func TestServices_Close(t *testing.T) {
	s := NewServices()
	s.SetEmbeddingService(mocks.NewMockEmbeddingService())
	s.SetGenerationService(mocks.NewMockGenerationService())

	require.NoError(t, s.Close())
	assert.Nil(t, s.EmbeddingService())
	assert.Nil(t, s.GenerationService())
}
