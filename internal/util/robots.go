// Package util holds small HTTP helpers shared by the page fetcher.
package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate answers whether a page may be fetched under its host's
// robots.txt, caching the parsed rules per host
type RobotsGate struct {
	mu        sync.RWMutex
	rules     map[string]*robotstxt.RobotsData
	client    *http.Client
	userAgent string
}

// NewRobotsGate creates a gate that identifies itself with the given
// user agent when fetching robots.txt
func NewRobotsGate(userAgent string, timeout time.Duration) *RobotsGate {
	return &RobotsGate{
		rules:     make(map[string]*robotstxt.RobotsData),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Check reports whether rawURL may be fetched and any crawl delay the
// host requests. An unreachable robots.txt permits the fetch.
func (g *RobotsGate) Check(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	data, err := g.rulesFor(ctx, parsed)
	if err != nil {
		return true, 0, nil
	}

	allowed := data.TestAgent(parsed.Path, g.userAgent)
	var delay time.Duration
	if group := data.FindGroup(g.userAgent); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay, nil
}

func (g *RobotsGate) rulesFor(ctx context.Context, page *url.URL) (*robotstxt.RobotsData, error) {
	g.mu.RLock()
	data, ok := g.rules[page.Host]
	g.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", page.Scheme, page.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		data, _ = robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
	} else {
		data, err = robotstxt.FromResponse(resp)
		if err != nil {
			return nil, fmt.Errorf("parse robots.txt: %w", err)
		}
	}

	g.mu.Lock()
	g.rules[page.Host] = data
	g.mu.Unlock()
	return data, nil
}

// Reset drops all cached rules
func (g *RobotsGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rules = make(map[string]*robotstxt.RobotsData)
}
