package pipeline

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verilens/verilens/internal/cache"
	"github.com/verilens/verilens/internal/model"
	"github.com/verilens/verilens/internal/util"
)

// fetchSleepFunc is replaceable in tests to skip backoff waits
var fetchSleepFunc = time.Sleep

const fetchAttempts = 3

// Fetcher retrieves page HTML with a redirect cap, a body size cap and
// retry on transient upstream errors
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	robots    *util.RobotsGate // nil disables robots.txt checks
	pageCache *cache.PageCache // nil disables page caching
	cacheTTL  time.Duration
}

// NewFetcher creates a fetcher
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecureTLS bool, httpProxy, httpsProxy string) *Fetcher {
	transport := &http.Transport{
		Proxy: util.ProxyFunc(httpProxy, httpsProxy),
	}
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// WithRobots enables robots.txt enforcement
func (f *Fetcher) WithRobots(g *util.RobotsGate) *Fetcher {
	f.robots = g
	return f
}

// WithPageCache enables the layered HTML cache
func (f *Fetcher) WithPageCache(c *cache.PageCache, ttl time.Duration) *Fetcher {
	f.pageCache = c
	f.cacheTTL = ttl
	return f
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML     string
	Meta     model.FetchMeta
	FinalURL string
	Cached   bool
}

// FetchWithRetry fetches the URL, retrying transient failures with
// exponential backoff. Cached pages are returned without a request.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.pageCache != nil {
		if body, ok := f.pageCache.Get(cache.PageKey(rawURL)); ok {
			return &FetchResult{
				HTML:     string(body),
				Meta:     model.FetchMeta{StatusCode: http.StatusOK},
				FinalURL: rawURL,
				Cached:   true,
			}, nil
		}
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.Check(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
		if delay > 0 {
			fetchSleepFunc(delay)
		}
	}

	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			fetchSleepFunc(time.Duration(attempt) * 2 * time.Second)
		}

		result, retryable, err := f.fetch(ctx, rawURL)
		if err == nil {
			if f.pageCache != nil {
				_ = f.pageCache.Set(cache.PageKey(rawURL), []byte(result.HTML), f.cacheTTL)
			}
			return result, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*FetchResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML: string(body),
		Meta: model.FetchMeta{
			StatusCode:   resp.StatusCode,
			ContentType:  resp.Header.Get("Content-Type"),
			LastModified: resp.Header.Get("Last-Modified"),
			ETag:         resp.Header.Get("ETag"),
		},
		FinalURL: resp.Request.URL.String(),
	}, false, nil
}
