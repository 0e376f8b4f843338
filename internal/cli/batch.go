package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/verilens/verilens/internal/pipeline"
	"github.com/verilens/verilens/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	rateLimit    float64
	rateBurst    int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Scan multiple feed pages from a file in parallel",
	Long: `Batch processes multiple URLs concurrently:
- Read URLs from input file (one per line, # comments allowed)
- Scan pages in parallel with configurable worker count
- Rate limit requests per host
- Write one JSON report per URL

Example:
  verilens batch urls.txt
  verilens batch urls.txt --concurrency 10 --output-dir ./reports
  verilens batch urls.txt --rate-limit 1 --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./verilens-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&rateLimit, "rate-limit", 2, "max requests per second per host")
	batchCmd.Flags().IntVar(&rateBurst, "burst", 5, "rate limiter burst size")

	// Shared with scan
	batchCmd.Flags().DurationVar(&timeout, "scan-timeout", 30*time.Second, "timeout for individual scans")
	batchCmd.Flags().StringVar(&userAgent, "ua", "VeriLens/0.1 (+https://github.com/verilens/verilens)", "HTTP User-Agent")
	batchCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable page cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	batchCmd.Flags().StringVar(&selector, "selector", "", "CSS selector for post containers (default from config)")
	batchCmd.Flags().StringVar(&provider, "provider", "http", "analysis backend (http, openai)")
	batchCmd.Flags().StringVar(&analyzeURL, "analyze-url", "", "http backend: analyze endpoint (default from config)")
	batchCmd.Flags().StringVar(&extractURL, "extract-url", "", "http backend: OCR endpoint (default from config)")
	batchCmd.Flags().StringVar(&openaiModel, "model", "gpt-4o-mini", "openai backend: model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  VeriLens Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.HTTP.Timeout = timeout
	cfg.Concurrency.BatchWorkers = concurrency
	cfg.Backend.RateLimit = rateLimit
	cfg.Backend.Burst = rateBurst

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Reading URLs from file...\n")
	urls, err := worker.ReadURLFile(file)
	if err != nil {
		return fmt.Errorf("read URL file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d URLs\n", len(urls))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Processing URLs with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(p, concurrency, rateLimit, rateBurst)
	results := processor.Process(ctx, urls)

	renderer := pipeline.NewRenderer(verbose)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, result.Err)
			continue
		}

		successCount++
		jsonPath := filepath.Join(outputDir, reportSlug(result.URL)+".json")
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.URL, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d posts)\n", result.URL, len(result.Report.Posts))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d URLs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// reportSlug derives a filesystem-safe report name from a URL
func reportSlug(rawURL string) string {
	s := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		s = parsed.Host + parsed.Path
	}

	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = strings.Trim(replacer.Replace(s), "_-")
	if s == "" {
		s = "report"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
