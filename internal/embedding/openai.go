package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lepinkainen/readnext/internal/errors"
	"github.com/lepinkainen/readnext/internal/ratelimit"
	"github.com/lepinkainen/readnext/internal/retry"
)

// OpenAIProvider calls an OpenAI-compatible /embeddings endpoint.
type OpenAIProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	limiter *ratelimit.Limiter
}

// OpenAIOptions configures an OpenAIProvider.
type OpenAIOptions struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	// RPS throttles requests to the provider; zero means unlimited.
	RPS int
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible embeddings API.
func NewOpenAIProvider(opts OpenAIOptions) *OpenAIProvider {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &OpenAIProvider{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		model:   opts.Model,
		client:  client,
		limiter: ratelimit.New("embeddings", opts.RPS),
	}
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed requests one embedding vector for text. Transient failures are
// retried with backoff; HTTP 4xx responses are not retried.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) (Vector, error) {
	if text == "" {
		return nil, errors.NewProviderError("cannot embed empty text", nil)
	}

	vector, err := retry.DoValue(ctx, "embed", func() (Vector, error) {
		return p.embedOnce(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}

func (p *OpenAIProvider) embedOnce(ctx context.Context, text string) (Vector, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, errors.NewProviderError("rate limiter", err)
	}

	payload, err := json.Marshal(embeddingRequest{Input: []string{text}, Model: p.model})
	if err != nil {
		return nil, retry.Permanent(errors.NewProviderError("marshal request", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, retry.Permanent(errors.NewProviderError("build request", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewProviderError("embedding request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		provErr := errors.NewProviderError(
			fmt.Sprintf("embedding API returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body)), nil)
		// Client errors won't heal on retry; server errors and 429 might.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Permanent(provErr)
		}
		return nil, provErr
	}

	var result embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewProviderError("decode embedding response", err)
	}
	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, retry.Permanent(errors.NewProviderError("embedding response contained no vector", nil))
	}

	slog.Debug("Fetched embedding", "model", p.model, "dimensions", len(result.Data[0].Embedding))
	return Vector(result.Data[0].Embedding), nil
}
