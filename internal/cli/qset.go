package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vkuzmenko/citescope/internal/model"
	"github.com/vkuzmenko/citescope/internal/probe"
	"github.com/vkuzmenko/citescope/internal/qset"
	"github.com/vkuzmenko/citescope/internal/store"
)

var qsetCmd = &cobra.Command{
	Use:   "qset",
	Short: "Manage and run the tracked question set",
}

var (
	qsetIntent   string
	qsetPriority string
	qsetTarget   string
	qsetPlatform string
	qsetSpan     time.Duration
	qsetJSON     bool
	qsetSchedule string
)

func init() {
	qsetAddCmd.Flags().StringVar(&qsetIntent, "intent", string(model.IntentInformational), "question intent (informational, navigational, transactional)")
	qsetAddCmd.Flags().StringVar(&qsetPriority, "priority", string(model.PriorityMedium), "probe priority (high, medium, low)")
	qsetAddCmd.Flags().StringVar(&qsetTarget, "target", "", "page that should be cited for this question")
	_ = qsetAddCmd.MarkFlagRequired("target")

	qsetRunCmd.Flags().StringVar(&qsetSchedule, "schedule", "", "cron expression; keep running and probe on this schedule")

	qsetKPICmd.Flags().StringVarP(&qsetPlatform, "platform", "p", "", "platform to report on")
	qsetKPICmd.Flags().DurationVar(&qsetSpan, "window", 7*24*time.Hour, "trailing window span")
	qsetKPICmd.Flags().BoolVar(&qsetJSON, "json", false, "emit the comparison as JSON")
	_ = qsetKPICmd.MarkFlagRequired("platform")

	qsetCmd.AddCommand(qsetAddCmd, qsetListCmd, qsetRemoveCmd, qsetRunCmd, qsetKPICmd)
}

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Store.Path == "" {
		return nil, fmt.Errorf("store.path is not configured")
	}
	return store.Open(cfg.Store.Path)
}

var qsetAddCmd = &cobra.Command{
	Use:   "add <question>",
	Short: "Track a new question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		entry := model.QSetEntry{
			ID:        uuid.NewString(),
			Question:  args[0],
			Intent:    model.Intent(qsetIntent),
			Priority:  model.Priority(qsetPriority),
			TargetURL: qsetTarget,
		}
		if err := db.SaveEntry(&entry); err != nil {
			return err
		}
		fmt.Printf("Added %s\n", entry.ID)
		return nil
	},
}

var qsetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		entries, err := db.ListEntries()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No tracked questions. Add one with: citescope qset add")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  [%s/%s]\n  Q: %s\n  -> %s\n", e.ID, e.Priority, e.Intent, e.Question, e.TargetURL)
		}
		return nil
	},
}

var qsetRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Stop tracking a question (past observations are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.DeleteEntry(args[0])
	},
}

var qsetRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Probe every platform with the full question set now",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		entries, err := db.ListEntries()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no tracked questions")
		}

		probers, err := probe.Build(cfg.Probe)
		if err != nil {
			return err
		}

		orchestrator := qset.NewOrchestrator(probers, cfg.Probe, db)

		if qsetSchedule != "" {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			scheduler := qset.NewScheduler(orchestrator, db)
			if err := scheduler.Start(ctx, qsetSchedule); err != nil {
				return err
			}
			fmt.Printf("Probing %d questions on schedule %q, Ctrl-C to stop\n", len(entries), qsetSchedule)
			<-ctx.Done()
			scheduler.Stop()
			return nil
		}

		observations := orchestrator.Run(cmd.Context(), entries)

		var cited, failed int
		for _, obs := range observations {
			switch {
			case obs.Failed:
				failed++
			case obs.Cited:
				cited++
			}
		}
		fmt.Printf("Probed %d question/platform pairs: %d cited, %d failed\n",
			len(observations), cited, failed)
		return nil
	},
}

var qsetKPICmd = &cobra.Command{
	Use:   "kpi",
	Short: "Report citation KPIs for one platform over a trailing window",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		entries, err := db.ListEntries()
		if err != nil {
			return err
		}

		curStart, curEnd, prevStart, prevEnd := kpiWindow(time.Now().UTC(), qsetSpan)
		current, err := db.ListObservations(qsetPlatform, curStart, curEnd)
		if err != nil {
			return err
		}
		previous, err := db.ListObservations(qsetPlatform, prevStart, prevEnd)
		if err != nil {
			return err
		}

		cmp := qset.Compare(qsetPlatform, entries, current, previous, curStart, curEnd, prevStart, prevEnd)
		if qsetJSON {
			return renderJSON(os.Stdout, cmp)
		}

		fmt.Printf("\nKPIs for %s (%s window)\n\n", qsetPlatform, qsetSpan)
		printKPI := func(label string, r model.KPIReport) {
			fmt.Printf("%-9s probes=%d failed=%d share-of-voice=%.0f%% coverage=%.0f%% accuracy=%.0f%%\n",
				label, r.TotalProbes, r.FailedProbes,
				r.ShareOfVoice*100, r.AnswerCoverage*100, r.CitationAccuracy*100)
		}
		printKPI("current", cmp.Current)
		printKPI("previous", cmp.Previous)
		for _, d := range cmp.Regained {
			fmt.Printf("  + regained: %s\n", d.Question)
		}
		for _, d := range cmp.Lost {
			fmt.Printf("  - lost: %s\n", d.Question)
		}
		return nil
	},
}
