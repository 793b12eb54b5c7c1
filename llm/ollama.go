// Ollama provider implementation over the local HTTP API.
//
// Information Hiding:
// - HTTP endpoints and streaming NDJSON decode
// - Model pull (download) handling with progress reporting
//
// This is the one provider with a real download phase: an absent model is
// reported as Downloadable, and Create pulls it while feeding the monitor
// loaded fractions.

package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider implements Provider against a local Ollama daemon.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider creates a new Ollama provider. Defaults: localhost
// daemon, llama3.2 model.
func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	return &OllamaProvider{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 300 * time.Second, // model pulls and generations are slow
		},
	}
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Model returns the current model.
func (p *OllamaProvider) Model() string {
	return p.model
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Availability asks the daemon which models are present. A model missing
// from the local tag list is Downloadable; an unreachable daemon is a
// capability-check error.
func (p *OllamaProvider) Availability(ctx context.Context) (Availability, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return Unavailable, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Unavailable, fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unavailable, fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return Unavailable, fmt.Errorf("decoding response: %w", err)
	}

	for _, m := range tags.Models {
		if m.Name == p.model || strings.HasPrefix(m.Name, p.model+":") {
			return Available, nil
		}
	}
	return Downloadable, nil
}

type ollamaPullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

type ollamaPullProgress struct {
	Status    string `json:"status"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
	Error     string `json:"error"`
}

// Create ensures the model is local, pulling it if needed, and returns a
// generate session. Pull progress is streamed to monitor as loaded
// fractions in [0,1]. A pull has no timeout of its own; cancel via ctx.
func (p *OllamaProvider) Create(ctx context.Context, monitor DownloadMonitor) (Session, error) {
	avail, err := p.Availability(ctx)
	if err != nil {
		return nil, err
	}
	if avail.NeedsDownload() {
		if err := p.pull(ctx, monitor); err != nil {
			return nil, err
		}
	}
	return &ollamaSession{provider: p}, nil
}

// pull streams /api/pull, forwarding completed/total fractions.
func (p *OllamaProvider) pull(ctx context.Context, monitor DownloadMonitor) error {
	body, err := json.Marshal(ollamaPullRequest{Name: p.model, Stream: true})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// The shared client's timeout would cut long pulls short.
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var progress ollamaPullProgress
		if err := json.Unmarshal(line, &progress); err != nil {
			continue
		}
		if progress.Error != "" {
			return fmt.Errorf("model pull failed: %s", progress.Error)
		}
		if monitor != nil && progress.Total > 0 {
			monitor(float64(progress.Completed) / float64(progress.Total))
		}
		if progress.Status == "success" {
			if monitor != nil {
				monitor(1)
			}
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading pull stream: %w", err)
	}
	return nil
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaSession struct {
	provider *OllamaProvider
}

func (s *ollamaSession) Prompt(ctx context.Context, text string) (string, error) {
	p := s.provider

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  p.model,
		Prompt: text,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return genResp.Response, nil
}

func (s *ollamaSession) Close() error {
	return nil
}
