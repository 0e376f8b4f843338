package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/verilens/verilens/internal/model"
	"github.com/verilens/verilens/internal/pipeline"
)

var (
	outJSON     string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	selector    string
	noCache     bool
	noRobots    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	provider    string
	analyzeURL  string
	extractURL  string
	openaiModel string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan a feed page and score the posts on it",
	Long: `Scan fetches a single page, locates each post on it, and runs the
analysis flow every post gets in the browser:
- Extract the best candidate text (or fall back to the first image)
- Classify it as claim, question, or meme/sarcasm
- Score claims from 0 to 100 with a reason and explanation
- Deduplicate identical content so it is analyzed once

Example:
  verilens scan https://example.com/feed
  verilens scan https://example.com/feed --json report.json
  verilens scan https://example.com/feed --provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")

	// HTTP flags
	scanCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall scan timeout")
	scanCmd.Flags().StringVar(&userAgent, "ua", "VeriLens/0.1 (+https://github.com/verilens/verilens)", "HTTP User-Agent")
	scanCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable page cache (force fresh fetch)")
	scanCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	scanCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	scanCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	scanCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Scanner flags
	scanCmd.Flags().StringVar(&selector, "selector", "", "CSS selector for post containers (default from config)")

	// Backend flags
	scanCmd.Flags().StringVar(&provider, "provider", "http", "analysis backend (http, openai)")
	scanCmd.Flags().StringVar(&analyzeURL, "analyze-url", "", "http backend: analyze endpoint (default from config)")
	scanCmd.Flags().StringVar(&extractURL, "extract-url", "", "http backend: OCR endpoint (default from config)")
	scanCmd.Flags().StringVar(&openaiModel, "model", "gpt-4o-mini", "openai backend: model name")
}

// buildConfig merges flag values over defaults, shared by scan and batch
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.RespectRobots = !noRobots
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose

	if selector != "" {
		cfg.Scanner.Selector = selector
	}
	if analyzeURL != "" {
		cfg.Backend.AnalyzeURL = analyzeURL
	}
	if extractURL != "" {
		cfg.Backend.ExtractURL = extractURL
	}

	cfg.Backend.Provider = provider
	if provider == "openai" {
		cfg.Backend.Model = openaiModel
		cfg.Backend.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Backend.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return cfg, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching page...\n")
	}

	report, err := p.ScanPage(ctx, url)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Analyzed %d posts\n", len(report.Posts))
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
