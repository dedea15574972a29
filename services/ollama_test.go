package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// resetBreakers gives each test a fresh circuit breaker registry so failure
// tests cannot trip breakers shared with later tests
func resetBreakers(t *testing.T) {
	t.Helper()
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))
}

func TestNewOllamaService(t *testing.T) {
	service := NewOllamaService("http://localhost:11434", "llama3.1:8b-instruct-q8_0", 120*time.Second)
	if service == nil {
		t.Fatal("NewOllamaService should not return nil")
	}
	if service.baseURL != "http://localhost:11434" {
		t.Errorf("baseURL = %v, want 'http://localhost:11434'", service.baseURL)
	}
	if service.model != "llama3.1:8b-instruct-q8_0" {
		t.Errorf("model = %v, want 'llama3.1:8b-instruct-q8_0'", service.model)
	}
	if service.httpClient.Timeout != 120*time.Second {
		t.Errorf("timeout = %v, want 120s", service.httpClient.Timeout)
	}
}

func TestOllamaService_Generate(t *testing.T) {
	resetBreakers(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %v, want POST", r.Method)
		}
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %v, want /api/generate", r.URL.Path)
		}

		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %v, want 'test-model'", req.Model)
		}
		if req.Prompt != "analyze this" {
			t.Errorf("prompt = %v, want 'analyze this'", req.Prompt)
		}
		if req.Stream {
			t.Error("stream should be false")
		}

		json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Model:    req.Model,
			Response: "the market looks calm",
			Done:     true,
		})
	}))
	defer server.Close()

	service := NewOllamaService(server.URL, "test-model", 10*time.Second)
	got, err := service.Generate(context.Background(), "analyze this")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "the market looks calm" {
		t.Errorf("Generate = %q, want 'the market looks calm'", got)
	}
}

func TestOllamaService_Generate_OutputUnmodified(t *testing.T) {
	resetBreakers(t)

	// Response text with leading/trailing whitespace must come back verbatim
	raw := "\n  BUY.\nBecause the trend is up.  \n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: raw, Done: true})
	}))
	defer server.Close()

	service := NewOllamaService(server.URL, "test-model", 10*time.Second)
	got, err := service.Generate(context.Background(), "prompt")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != raw {
		t.Errorf("Generate = %q, want verbatim %q", got, raw)
	}
}

func TestOllamaService_Generate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			wantErr: "status 404",
		},
		{
			name: "api error field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ollamaGenerateResponse{Error: "model not loaded"})
			},
			wantErr: "model not loaded",
		},
		{
			name: "empty response text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ollamaGenerateResponse{Done: true})
			},
			wantErr: "empty response",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			wantErr: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetBreakers(t)

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			service := NewOllamaService(server.URL, "test-model", 10*time.Second)
			_, err := service.Generate(context.Background(), "prompt")

			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestOllamaService_Generate_ConnectionRefused(t *testing.T) {
	resetBreakers(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	service := NewOllamaService(server.URL, "test-model", 2*time.Second)
	_, err := service.Generate(context.Background(), "prompt")

	if err == nil {
		t.Fatal("expected an error for a closed server")
	}
}
