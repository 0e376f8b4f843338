package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/verilens/verilens/internal/agent"
	"github.com/verilens/verilens/internal/backend"
	"github.com/verilens/verilens/internal/model"
)

var analyzeImageURL string

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [statement]",
	Short: "Analyze a single statement or image without fetching a page",
	Long: `Analyze sends one statement (or one image URL) straight to the analysis
backend and prints the verdict. Useful for trying the backend out or for
scripting.

Example:
  verilens analyze "The Great Wall of China is visible from space."
  verilens analyze --image https://example.com/screenshot.png
  verilens analyze "Water boils at 100C at sea level" --provider openai`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeImageURL, "image", "", "analyze an image URL instead of a statement")
	analyzeCmd.Flags().StringVar(&provider, "provider", "http", "analysis backend (http, openai)")
	analyzeCmd.Flags().StringVar(&analyzeURL, "analyze-url", "", "http backend: analyze endpoint (default from config)")
	analyzeCmd.Flags().StringVar(&extractURL, "extract-url", "", "http backend: OCR endpoint (default from config)")
	analyzeCmd.Flags().StringVar(&openaiModel, "model", "gpt-4o-mini", "openai backend: model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && analyzeImageURL == "" {
		return fmt.Errorf("provide a statement or --image URL")
	}
	if len(args) == 1 && analyzeImageURL != "" {
		return fmt.Errorf("provide a statement or --image URL, not both")
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := backend.NewProvider(cfg.Backend)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	defer cancel()

	var res model.Result
	if analyzeImageURL != "" {
		res, err = p.AnalyzeImage(ctx, analyzeImageURL)
	} else {
		res, err = p.AnalyzeText(ctx, args[0])
	}
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	printVerdict(res)
	return nil
}

func printVerdict(res model.Result) {
	if res.Failed() {
		fmt.Printf("Error: %s\n", res.Error)
		return
	}

	a := res.Analysis
	fmt.Printf("Type:   %s\n", a.Type)
	if a.Type == model.VerdictClaim && a.Score != nil {
		fmt.Printf("Score:  %d/100\n", *a.Score)
	}
	if a.Reason != "" {
		fmt.Printf("Reason: %s\n", a.Reason)
	}
	if a.Explanation != "" && a.Type == model.VerdictClaim {
		fmt.Printf("\n%s\n", agent.PrettyExplanation(a.Explanation))
	}
}
