package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vkuzmenko/citescope/internal/pipeline"
)

var (
	optimizePlatform string
	optimizeOut      string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <file | ->",
	Short: "Rewrite content against its weakest dimensions and re-score it",
	Args:  cobra.ExactArgs(1),
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizePlatform, "platform", "p", "", "apply a platform weight profile")
	optimizeCmd.Flags().StringVarP(&optimizeOut, "out", "o", "", "write the rewritten content to a file instead of stdout")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if optimizePlatform != "" {
		cfg.Scoring.Platform = optimizePlatform
	}

	pc, ok := cfg.Probe.Platforms["openai"]
	if !ok || pc.APIKey == "" {
		return fmt.Errorf("optimize needs probe.platforms.openai with an api key")
	}

	analyzer, _, db, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	var content []byte
	label := args[0]
	if label == "-" {
		label = "stdin"
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	optimizer := pipeline.NewOptimizer(analyzer, pipeline.NewOpenAIRewriter(pc))
	result, err := optimizer.Optimize(cmd.Context(), string(content), label, cfg.Scoring.Platform)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Score: %.1f -> %.1f\n", result.Before.TotalScore, result.After.TotalScore)
	if optimizeOut != "" {
		return os.WriteFile(optimizeOut, []byte(result.Content), 0o644)
	}
	fmt.Fprintln(os.Stdout, result.Content)
	return nil
}
