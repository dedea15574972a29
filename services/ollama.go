package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"market-analyst/observability"
)

// OllamaService handles communication with a locally hosted Ollama server
type OllamaService struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewOllamaService creates a new OllamaService instance
func NewOllamaService(baseURL, model string, timeout time.Duration) *OllamaService {
	return &OllamaService{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		model:      model,
	}
}

// ollamaGenerateRequest represents the request body for the generate endpoint
type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// ollamaGenerateResponse represents the non-streaming generate response
type ollamaGenerateResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	Error     string `json:"error,omitempty"`
}

// Generate sends the prompt verbatim and returns the model's full textual
// output unmodified, in a single blocking call
func (s *OllamaService) Generate(ctx context.Context, prompt string) (string, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerOllama, "generate")
	timer := metrics.NewTimer()

	result, err := WithCircuitBreaker(ctx, BreakerOllama, func() (string, error) {
		request := ollamaGenerateRequest{
			Model:  s.model,
			Prompt: prompt,
			Stream: false,
		}

		reqBody, err := json.Marshal(request)
		if err != nil {
			return "", fmt.Errorf("failed to marshal generate request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			s.baseURL+"/api/generate", bytes.NewReader(reqBody))
		if err != nil {
			return "", fmt.Errorf("failed to create generate request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("failed to invoke model: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read generate response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("generate API returned status %d: %s", resp.StatusCode, string(body))
		}

		var response ollamaGenerateResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return "", fmt.Errorf("failed to decode generate response: %w", err)
		}
		if response.Error != "" {
			return "", fmt.Errorf("generate API error: %s", response.Error)
		}
		if response.Response == "" {
			return "", fmt.Errorf("empty response from model")
		}

		return response.Response, nil
	})

	timer.ObserveExternalAPI(BreakerOllama, "generate")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerOllama, "generate", categorizeAPIError(err))
	}
	return result, err
}

// Compile-time interface verification
var _ GeneratorService = (*OllamaService)(nil)
