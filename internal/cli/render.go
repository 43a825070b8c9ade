package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vkuzmenko/citescope/internal/model"
)

// renderAudit writes a human-readable report to w
func renderAudit(w io.Writer, result *model.AuditResult) {
	fmt.Fprintf(w, "\nCitability Audit: %s\n", result.Target)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 60))
	fmt.Fprintf(w, "Total Score:    %.1f / 100\n", result.TotalScore)
	fmt.Fprintf(w, "Weight Version: %s\n", result.WeightVersion)
	fmt.Fprintf(w, "Platform:       %s", result.Platform)
	if result.PlatformFallback {
		fmt.Fprintf(w, " (no profile, universal weights used)")
	}
	fmt.Fprintf(w, "\nAnalyzed:       %s (%.2fs)\n\n",
		result.AnalyzedAt.Format("2006-01-02 15:04:05"), result.Duration.Seconds())

	fmt.Fprintf(w, "%-28s %7s %7s %8s  %s\n", "DIMENSION", "SCORE", "WEIGHT", "CONTRIB", "STATUS")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, d := range result.Dimensions {
		fmt.Fprintf(w, "%-28s %7.1f %7.2f %8.1f  %s\n",
			d.Dimension, d.Score, d.Weight, d.Contribution, d.Status())
		for _, e := range d.Errors {
			fmt.Fprintf(w, "  ! %s\n", e)
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintf(w, "\nTop recommendations:\n")
		for i, rec := range result.Recommendations {
			fmt.Fprintf(w, "  %d. %s\n", i+1, rec)
		}
	}
}

// renderBreakdown adds per-sub-check detail under each dimension
func renderBreakdown(w io.Writer, result *model.AuditResult) {
	for _, d := range result.Dimensions {
		fmt.Fprintf(w, "\n%s (%.1f)\n", d.Dimension, d.Score)
		for _, b := range d.Breakdown {
			fmt.Fprintf(w, "  %-26s %6.1f x %.2f  %s\n", b.Name, b.Score, b.Weight, b.Explanation)
		}
	}
}

// renderJSON emits the raw result for machine consumption
func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
