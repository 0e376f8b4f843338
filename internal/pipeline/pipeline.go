// Package pipeline orchestrates the scan flow from URL to page report.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/verilens/verilens/internal/agent"
	"github.com/verilens/verilens/internal/backend"
	"github.com/verilens/verilens/internal/cache"
	"github.com/verilens/verilens/internal/dom"
	"github.com/verilens/verilens/internal/model"
	"github.com/verilens/verilens/internal/util"
)

// Pipeline fetches a page, walks its posts and analyzes each one
type Pipeline struct {
	fetcher  *Fetcher
	provider backend.Provider
	store    *cache.SnapshotStore
	renderer *Renderer
	config   *model.Config
}

// NewPipeline wires a pipeline from configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := backend.NewProvider(cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	fetcher := NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy)
	if cfg.HTTP.RespectRobots {
		fetcher = fetcher.WithRobots(util.NewRobotsGate(cfg.HTTP.UserAgent, cfg.HTTP.Timeout))
	}
	if cfg.Cache.Enabled {
		fetcher = fetcher.WithPageCache(cache.NewPageCache(cfg.Cache.Dir, cfg.Cache.TTL), cfg.Cache.TTL)
	}

	var store *cache.SnapshotStore
	if cfg.Store.Enabled {
		store = cache.NewSnapshotStore(cfg.Store.Dir)
	}

	return &Pipeline{
		fetcher:  fetcher,
		provider: provider,
		store:    store,
		renderer: NewRenderer(cfg.Output.Verbose),
		config:   cfg,
	}, nil
}

// ScanPage fetches one URL, discovers its posts, analyzes every one and
// returns the collected verdicts
func (p *Pipeline) ScanPage(ctx context.Context, url string) (*model.PageReport, error) {
	fetched, err := p.fetcher.FetchWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "fetched %s (status %d, cached=%v)\n",
			fetched.FinalURL, fetched.Meta.StatusCode, fetched.Cached)
	}

	doc, err := dom.ParseString(fetched.HTML)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	session := agent.NewSession(doc, agent.Options{
		Provider: p.provider,
		Store:    p.store,
		PageURL:  fetched.FinalURL,
		Selector: p.config.Scanner.Selector,
		Timeout:  p.config.Backend.Timeout,
	})
	session.Start()
	session.AnalyzeAll(ctx)
	session.Wait()

	verdicts := session.Verdicts()
	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "analyzed %d posts on %s\n", len(verdicts), fetched.FinalURL)
	}

	return &model.PageReport{
		URL:       fetched.FinalURL,
		FetchedAt: time.Now().UTC(),
		FetchMeta: fetched.Meta,
		Posts:     verdicts,
	}, nil
}

// RenderReport writes the report as JSON when a path is given and always
// prints the stdout summary
func (p *Pipeline) RenderReport(report *model.PageReport, jsonPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if p.config.Output.Verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}
	p.renderer.RenderSummary(report)
	return nil
}
