package mocks

import (
	"context"
)

// MockGenerationService is a mock implementation of GenerationService for testing
type MockGenerationService struct {
	response string
	err      error
	prompts  []string
}

// NewMockGenerationService creates a new MockGenerationService
func NewMockGenerationService() *MockGenerationService {
	return &MockGenerationService{
		response: "mock answer",
	}
}

func (m *MockGenerationService) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *MockGenerationService) Model() string {
	return "mock-generation-model"
}

func (m *MockGenerationService) Ping(ctx context.Context) error {
	return nil
}

func (m *MockGenerationService) Close() error {
	return nil
}

// Helper methods for testing

func (m *MockGenerationService) SetResponse(response string) {
	m.response = response
}

func (m *MockGenerationService) SetError(err error) {
	m.err = err
}

// Prompts returns every prompt passed to Complete, in order.
func (m *MockGenerationService) Prompts() []string {
	return m.prompts
}

// LastPrompt returns the most recent prompt, or "" if none.
func (m *MockGenerationService) LastPrompt() string {
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}
