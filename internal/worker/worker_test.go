package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/verilens/verilens/internal/model"
)

type fakeScanner struct {
	mu      sync.Mutex
	calls   []string
	failOn  string
	delay   time.Duration
	maxSeen int
	active  int
}

func (f *fakeScanner) ScanPage(ctx context.Context, url string) (*model.PageReport, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.active++
	if f.active > f.maxSeen {
		f.maxSeen = f.active
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.active--
	f.mu.Unlock()

	if url == f.failOn {
		return nil, errors.New("scan failed")
	}
	return &model.PageReport{URL: url}, nil
}

func TestBatchProcessor_PreservesInputOrder(t *testing.T) {
	urls := make([]string, 20)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.com/post/%d", i)
	}

	bp := NewBatchProcessor(&fakeScanner{}, 4, 0, 0)
	results := bp.Process(context.Background(), urls)

	if len(results) != len(urls) {
		t.Fatalf("got %d results, want %d", len(results), len(urls))
	}
	for i, r := range results {
		if r.URL != urls[i] {
			t.Errorf("result %d: got %q, want %q", i, r.URL, urls[i])
		}
		if r.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
		}
		if r.Report == nil || r.Report.URL != urls[i] {
			t.Errorf("result %d: report does not match URL", i)
		}
	}
}

func TestBatchProcessor_FailureIsIsolated(t *testing.T) {
	urls := []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}
	bp := NewBatchProcessor(&fakeScanner{failOn: urls[1]}, 2, 0, 0)
	results := bp.Process(context.Background(), urls)

	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy URLs should not fail: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Error("expected error for failing URL")
	}
	if results[1].Report != nil {
		t.Error("failed scan should not carry a report")
	}
}

func TestBatchProcessor_RespectsWorkerCount(t *testing.T) {
	urls := make([]string, 12)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.com/%d", i)
	}
	fs := &fakeScanner{delay: 10 * time.Millisecond}
	bp := NewBatchProcessor(fs, 3, 0, 0)
	bp.Process(context.Background(), urls)

	if fs.maxSeen > 3 {
		t.Errorf("saw %d concurrent scans, worker cap is 3", fs.maxSeen)
	}
	if len(fs.calls) != len(urls) {
		t.Errorf("got %d scan calls, want %d", len(fs.calls), len(urls))
	}
}

func TestBatchProcessor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	urls := []string{"https://example.com/a", "https://example.com/b"}
	bp := NewBatchProcessor(&fakeScanner{}, 1, 1, 1)
	results := bp.Process(ctx, urls)

	for _, r := range results {
		if r.URL == "" {
			t.Error("cancelled result should still carry its URL")
		}
	}
}

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow("https://example.com/a") {
		t.Error("first request should be allowed")
	}
	if !l.Allow("https://example.com/b") {
		t.Error("second request within burst should be allowed")
	}
	if l.Allow("https://example.com/c") {
		t.Error("third request should exceed the burst")
	}
	// A different host has its own budget.
	if !l.Allow("https://other.com/a") {
		t.Error("different host should have an independent limit")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetHostRate("slow.example.com", 0, 1)

	if !l.Allow("https://slow.example.com/a") {
		t.Error("burst token should be available")
	}
	if l.Allow("https://slow.example.com/b") {
		t.Error("zero-rate host should refuse after the burst")
	}
}

func TestReadURLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "https://example.com/a\n\n# comment\n  https://example.com/b  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLFile(path)
	if err != nil {
		t.Fatalf("ReadURLFile: %v", err)
	}
	want := []string{"https://example.com/a", "https://example.com/b"}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d", len(urls), len(want))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("url %d: got %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestReadURLFile_Missing(t *testing.T) {
	if _, err := ReadURLFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
