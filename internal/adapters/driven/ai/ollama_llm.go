package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
)

// Ensure OllamaLLM implements GenerationService
var _ driven.GenerationService = (*OllamaLLM)(nil)

// OllamaLLM implements GenerationService against a local Ollama
// server's /api/generate endpoint.
type OllamaLLM struct {
	baseURL string
	model   string
	client  *http.Client
	retry   RetryPolicy
}

// NewOllamaLLM creates a new Ollama generation service
func NewOllamaLLM(baseURL, model string) (driven.GenerationService, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		return nil, fmt.Errorf("Ollama generation model is required")
	}

	return &OllamaLLM{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		retry: DefaultRetryPolicy(),
	}, nil
}

// generateRequest is the Ollama /api/generate request format
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the Ollama /api/generate response format
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Complete generates a completion for the given prompt
func (l *OllamaLLM) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  l.model,
		Prompt: prompt,
		Stream: false,
	}

	var resp *generateResponse
	err := l.retry.Do(ctx, func() error {
		var reqErr error
		resp, reqErr = l.doRequest(ctx, reqBody)
		return reqErr
	})
	if err != nil {
		return "", err
	}

	return resp.Response, nil
}

// Model returns the model name being used
func (l *OllamaLLM) Model() string {
	return l.model
}

// Ping verifies the Ollama server is reachable
func (l *OllamaLLM) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", l.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp.StatusCode, "tags endpoint")
	}
	return nil
}

// Close releases resources held by the service
func (l *OllamaLLM) Close() error {
	l.client.CloseIdleConnections()
	return nil
}

func (l *OllamaLLM) doRequest(ctx context.Context, reqBody generateRequest) (*generateResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", l.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := genResp.Error
		if message == "" {
			message = "ollama returned status"
		}
		return nil, classifyStatus(resp.StatusCode, message)
	}
	if genResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderRejected, genResp.Error)
	}

	return &genResp, nil
}
