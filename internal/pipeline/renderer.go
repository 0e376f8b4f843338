package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/verilens/verilens/internal/model"
)

// Renderer writes page reports as JSON files and stdout summaries
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// RenderJSON writes the report to path as indented JSON
func (r *Renderer) RenderJSON(report *model.PageReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a human-readable digest of the report to stdout
func (r *Renderer) RenderSummary(report *model.PageReport) {
	fmt.Printf("\n")
	fmt.Printf("═══════════════════════════════════════════════════════════\n")
	fmt.Printf("  VeriLens Scan: %s\n", report.URL)
	fmt.Printf("═══════════════════════════════════════════════════════════\n")
	fmt.Printf("\n")
	fmt.Printf("  Posts found:  %d\n", len(report.Posts))

	var claims, errors, other int
	for _, p := range report.Posts {
		switch {
		case p.Result.Failed():
			errors++
		case p.Result.Analysis != nil && p.Result.Analysis.Type == model.VerdictClaim:
			claims++
		default:
			other++
		}
	}
	fmt.Printf("  Claims:       %d\n", claims)
	fmt.Printf("  Non-claims:   %d\n", other)
	fmt.Printf("  Errors:       %d\n", errors)
	fmt.Printf("\n")

	for _, p := range report.Posts {
		fmt.Printf("  %s\n", summaryLine(p))
	}
	fmt.Printf("\n")
}

func summaryLine(p model.PostVerdict) string {
	excerpt := p.Excerpt
	if excerpt == "" && p.Image != "" {
		excerpt = "(image) " + p.Image
	}
	if r := []rune(excerpt); len(r) > 60 {
		excerpt = string(r[:60]) + "…"
	}

	if p.Result.Failed() {
		return fmt.Sprintf("✗ [%d] %s: %s", p.Handle, excerpt, p.Result.Error)
	}
	a := p.Result.Analysis
	if a == nil {
		return fmt.Sprintf("• [%d] %s: %s", p.Handle, excerpt, p.State)
	}
	if a.Type == model.VerdictClaim && a.Score != nil {
		return fmt.Sprintf("✓ [%d] %s | %d/100 (%s)", p.Handle, excerpt, *a.Score, a.Reason)
	}
	return fmt.Sprintf("• [%d] %s | %s: %s", p.Handle, excerpt, a.Type, a.Reason)
}
