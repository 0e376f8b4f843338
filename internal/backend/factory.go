package backend

import (
	"fmt"
	"strings"

	"github.com/verilens/verilens/internal/model"
)

// NewProvider creates an analysis provider from configuration
func NewProvider(cfg model.BackendConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "http", "":
		return NewHTTPProvider(cfg)

	case "openai":
		return NewOpenAIProvider(cfg)

	default:
		return nil, fmt.Errorf("unknown backend provider: %s (supported: http, openai)", cfg.Provider)
	}
}
