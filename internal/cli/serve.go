package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vkuzmenko/citescope/internal/pipeline"
	"github.com/vkuzmenko/citescope/internal/probe"
	"github.com/vkuzmenko/citescope/internal/qset"
	"github.com/vkuzmenko/citescope/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the audit pipeline over HTTP and, when a schedule is
configured, runs the question set against every platform on that cadence.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	analyzer, registry, db, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	// The rewrite endpoint needs an LLM; reuse the openai platform config
	var optimizer *pipeline.Optimizer
	if pc, ok := cfg.Probe.Platforms["openai"]; ok && pc.APIKey != "" {
		optimizer = pipeline.NewOptimizer(analyzer, pipeline.NewOpenAIRewriter(pc))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Schedule.Cron != "" && db != nil {
		probers, err := probe.Build(cfg.Probe)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: scheduling disabled: %v\n", err)
		} else {
			orchestrator := qset.NewOrchestrator(probers, cfg.Probe, db)
			scheduler := qset.NewScheduler(orchestrator, db)
			if err := scheduler.Start(ctx, cfg.Schedule.Cron); err != nil {
				return err
			}
			defer scheduler.Stop()
			fmt.Fprintf(os.Stderr, "Scheduled question-set runs: %s\n", cfg.Schedule.Cron)
		}
	}

	fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
	srv := server.New(analyzer, optimizer, registry, cfg.Server, Version)
	return srv.ListenAndServe(ctx)
}
