package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/verilens/verilens/internal/model"
)

// maxResponseBytes caps how much of a backend response is read
const maxResponseBytes = 1 << 20

// HTTPProvider talks to the scoring service over form-style POSTs: the
// analyze endpoint for full scoring, the extract endpoint for OCR only.
type HTTPProvider struct {
	analyzeURL string
	extractURL string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPProvider creates the HTTP provider
func NewHTTPProvider(cfg model.BackendConfig) (*HTTPProvider, error) {
	if cfg.AnalyzeURL == "" {
		return nil, fmt.Errorf("backend analyze URL is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &HTTPProvider{
		analyzeURL: cfg.AnalyzeURL,
		extractURL: cfg.ExtractURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}, nil
}

// Name returns the provider name
func (p *HTTPProvider) Name() string {
	return "http"
}

// AnalyzeText scores a claim/caption string
func (p *HTTPProvider) AnalyzeText(ctx context.Context, text string) (model.Result, error) {
	return p.analyze(ctx, url.Values{"statement": {text}})
}

// AnalyzeImage scores a post from its image reference
func (p *HTTPProvider) AnalyzeImage(ctx context.Context, imageURL string) (model.Result, error) {
	return p.analyze(ctx, url.Values{"image_url": {imageURL}})
}

func (p *HTTPProvider) analyze(ctx context.Context, form url.Values) (model.Result, error) {
	body, err := p.post(ctx, p.analyzeURL, form)
	if err != nil {
		return model.Result{}, err
	}

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return model.Result{}, fmt.Errorf("decode analyze response: %w", err)
	}
	return validate(wire), nil
}

// ExtractText runs OCR-only extraction on an image reference
func (p *HTTPProvider) ExtractText(ctx context.Context, imageURL string) (string, error) {
	if p.extractURL == "" {
		return "", fmt.Errorf("extract endpoint not configured")
	}

	body, err := p.post(ctx, p.extractURL, url.Values{"image_url": {imageURL}})
	if err != nil {
		return "", err
	}

	var wire struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return "", fmt.Errorf("decode extract response: %w", err)
	}
	if wire.Error != "" {
		return "", fmt.Errorf("extract: %s", wire.Error)
	}
	return wire.Text, nil
}

func (p *HTTPProvider) post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
