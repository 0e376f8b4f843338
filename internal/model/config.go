package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete VeriLens configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Backend     BackendConfig     `yaml:"backend"`
	Scanner     ScannerConfig     `yaml:"scanner"`
	Cache       CacheConfig       `yaml:"cache"`
	Store       StoreConfig       `yaml:"store"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls page fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`        // Overall fetch timeout
	UserAgent     string        `yaml:"user_agent"`     // User-Agent header
	MaxBodyBytes  int64         `yaml:"max_body_bytes"` // Response read cap
	InsecureTLS   bool          `yaml:"insecure_tls"`   // Skip certificate verification
	RespectRobots bool          `yaml:"respect_robots"` // Honor robots.txt before fetching
	HTTPProxy     string        `yaml:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy"`
}

// BackendConfig selects and configures the analysis collaborator
type BackendConfig struct {
	Provider   string        `yaml:"provider"`    // "http" or "openai"
	AnalyzeURL string        `yaml:"analyze_url"` // http provider: full-scoring endpoint
	ExtractURL string        `yaml:"extract_url"` // http provider: OCR-only endpoint
	APIKey     string        `yaml:"api_key,omitempty"`
	Model      string        `yaml:"model"`      // openai provider: model name
	Timeout    time.Duration `yaml:"timeout"`    // Bounded wait per analysis request
	RateLimit  float64       `yaml:"rate_limit"` // Requests per second per host
	Burst      int           `yaml:"burst"`
}

// ScannerConfig controls post discovery
type ScannerConfig struct {
	Selector string `yaml:"selector"` // CSS selector matching post containers
}

// CacheConfig controls the fetched-page cache. The per-post result cache is
// always in memory and unbounded; this only covers page HTML.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// StoreConfig controls the last-result snapshot read by the popup/summary UI
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       60 * time.Second,
			UserAgent:     "VeriLens/0.1 (+https://github.com/verilens/verilens)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Backend: BackendConfig{
			Provider:   "http",
			AnalyzeURL: "http://127.0.0.1:8000/api/analyze/",
			ExtractURL: "http://127.0.0.1:8000/api/extract_text/",
			Model:      "gpt-4o-mini",
			Timeout:    30 * time.Second,
			RateLimit:  2,
			Burst:      5,
		},
		Scanner: ScannerConfig{
			Selector: "article, [role='article']",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultDir("cache"),
			TTL:     15 * time.Minute,
		},
		Store: StoreConfig{
			Enabled: true,
			Dir:     defaultDir("store"),
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Output: OutputConfig{},
	}
}

// defaultDir resolves ~/.verilens/<name>, falling back to a relative path
// when the home directory cannot be determined
func defaultDir(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".verilens", name)
	}
	return filepath.Join(home, ".verilens", name)
}
