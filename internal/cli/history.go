package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vkuzmenko/citescope/internal/decay"
	"github.com/vkuzmenko/citescope/internal/model"
	"github.com/vkuzmenko/citescope/internal/store"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history <target>",
	Short: "Show a target's audit history and freshness state",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "audits to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "emit history as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	target := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	audits, err := db.ListAudits(target, historyLimit)
	if err != nil {
		return err
	}
	snapshots, err := db.ListSnapshots(target)
	if err != nil {
		return err
	}
	if len(audits) == 0 && len(snapshots) == 0 {
		return fmt.Errorf("no history for %s", target)
	}

	if historyJSON {
		return renderJSON(os.Stdout, map[string]any{
			"audits":    audits,
			"snapshots": snapshots,
		})
	}

	fmt.Printf("\nHistory: %s\n\n", target)
	for _, a := range audits {
		fmt.Printf("%s  score=%.1f  weights=%s  platform=%s  hash=%s\n",
			a.AnalyzedAt.Format("2006-01-02 15:04"), a.TotalScore,
			a.WeightVersion, a.Platform, shortHash(a.ContentHash))
	}

	if len(snapshots) > 0 {
		tracker := decay.NewTracker()
		state := tracker.State(snapshots)
		last := snapshots[len(snapshots)-1]
		fmt.Printf("\nFreshness: %s", state)
		if last.DaysSinceUpdate >= 0 {
			fmt.Printf(" (last update signal %d days ago)", last.DaysSinceUpdate)
		}
		fmt.Println()

		alert, err := checkDecay(cfg, db, tracker, target, snapshots)
		if err == nil && alert != nil {
			fmt.Printf("ALERT: %s\n", alert.Message)
		}
	}
	return nil
}

// checkDecay combines staleness relative to the other tracked targets with
// the trailing week's citation accuracy across all configured platforms
func checkDecay(cfg *model.Config, db *store.Store, tracker *decay.Tracker, target string, snapshots []model.ContentSnapshot) (*model.DecayAlert, error) {
	ages, err := db.LatestUpdateAges()
	if err != nil {
		return nil, err
	}
	var competitors []int
	for other, days := range ages {
		if other != target {
			competitors = append(competitors, days)
		}
	}
	lead := tracker.LeadTime(snapshots[len(snapshots)-1].DaysSinceUpdate, competitors)

	entries, err := db.ListEntries()
	if err != nil {
		return nil, err
	}
	entryIDs := make(map[string]bool)
	for _, e := range entries {
		if e.TargetURL == target {
			entryIDs[e.ID] = true
		}
	}

	end := time.Now().UTC()
	start := end.Add(-7 * 24 * time.Hour)
	var cited, accurate int
	for platform := range cfg.Probe.Platforms {
		observations, err := db.ListObservations(platform, start, end)
		if err != nil {
			continue
		}
		for _, obs := range observations {
			if !entryIDs[obs.EntryID] || obs.Failed || !obs.Cited {
				continue
			}
			cited++
			if obs.Accurate {
				accurate++
			}
		}
	}
	if cited == 0 {
		return nil, nil // No citation signal to degrade
	}
	accuracy := float64(accurate) / float64(cited)

	return tracker.Check(target, snapshots, lead, accuracy), nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
