// Package worker runs page scans concurrently for the batch command.
package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/verilens/verilens/internal/model"
)

// PageScanner scans one URL into a page report
type PageScanner interface {
	ScanPage(ctx context.Context, url string) (*model.PageReport, error)
}

// PageResult pairs a URL with its report or error
type PageResult struct {
	URL    string
	Report *model.PageReport
	Err    error
}

// BatchProcessor fans page scans out over a fixed worker count, with
// per-host rate limiting in front of every scan
type BatchProcessor struct {
	scanner PageScanner
	limiter *Limiter
	workers int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(scanner PageScanner, workers int, requestsPerSecond float64, burst int) *BatchProcessor {
	if workers <= 0 {
		workers = 1
	}
	return &BatchProcessor{
		scanner: scanner,
		limiter: NewLimiter(requestsPerSecond, burst),
		workers: workers,
	}
}

// Process scans every URL, preserving input order in the results
func (b *BatchProcessor) Process(ctx context.Context, urls []string) []PageResult {
	results := make([]PageResult, len(urls))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = b.scanOne(ctx, urls[idx])
			}
		}()
	}

	for i := range urls {
		select {
		case <-ctx.Done():
			results[i] = PageResult{URL: urls[i], Err: ctx.Err()}
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (b *BatchProcessor) scanOne(ctx context.Context, url string) PageResult {
	if err := b.limiter.Wait(ctx, url); err != nil {
		return PageResult{URL: url, Err: fmt.Errorf("rate limit: %w", err)}
	}
	report, err := b.scanner.ScanPage(ctx, url)
	return PageResult{URL: url, Report: report, Err: err}
}

// ReadURLFile loads one URL per line, skipping blanks and # comments
func ReadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read url file: %w", err)
	}
	return urls, nil
}
