package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vkuzmenko/citescope/internal/model"
	"github.com/vkuzmenko/citescope/internal/pipeline"
)

var (
	auditPlatform string
	auditJSON     bool
	auditDetail   bool
	auditText     bool
)

var auditCmd = &cobra.Command{
	Use:   "audit <url | file | ->",
	Short: "Score one page or text for answer-engine citability",
	Long: `Audit fetches the target (or reads a file, or stdin with "-"),
scores it across the ten citability dimensions, and prints the weighted
total with per-dimension breakdowns.`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVarP(&auditPlatform, "platform", "p", "", "apply a platform weight profile (perplexity, chatgpt, gemini, copilot)")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "emit the raw result as JSON")
	auditCmd.Flags().BoolVar(&auditDetail, "detail", false, "show per-sub-check breakdowns")
	auditCmd.Flags().BoolVar(&auditText, "text", false, "treat file input as plain text even if it looks like HTML")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if auditPlatform != "" {
		cfg.Scoring.Platform = auditPlatform
	}

	analyzer, _, db, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	result, err := auditTarget(cmd, analyzer, cfg.Scoring.Platform, args[0])
	if err != nil {
		return err
	}

	if auditJSON {
		return renderJSON(os.Stdout, result)
	}
	renderAudit(os.Stdout, result)
	if auditDetail {
		renderBreakdown(os.Stdout, result)
	}
	return nil
}

func auditTarget(cmd *cobra.Command, analyzer *pipeline.Analyzer, platform, target string) (*model.AuditResult, error) {
	switch {
	case target == "-":
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return analyzer.AuditText(string(content), "stdin", platform)
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return analyzer.AuditURL(cmd.Context(), target, platform)
	default:
		content, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", target, err)
		}
		if !auditText && looksLikeHTML(string(content)) {
			return analyzer.AuditHTML(string(content), target, platform)
		}
		return analyzer.AuditText(string(content), target, platform)
	}
}

func looksLikeHTML(content string) bool {
	head := strings.ToLower(content)
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}
