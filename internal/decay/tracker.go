// Package decay classifies how stale a tracked page has become and decides
// when that staleness starts costing citations. It only reads history the
// audit pipeline already persisted.
package decay

import (
	"fmt"
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

const (
	freshWindowDays = 30
	graceWindowDays = 90
	decayedRunLen   = 3 // Identical consecutive hashes before Decayed
)

// Tracker derives freshness state and decay alerts from snapshot history
type Tracker struct{}

func NewTracker() *Tracker { return &Tracker{} }

// State classifies the target from its snapshots, newest last.
// Three consecutive identical content hashes override the age bands: the
// page is Decayed until its hash changes, however young its visible date.
func (t *Tracker) State(snapshots []model.ContentSnapshot) model.FreshnessState {
	if len(snapshots) == 0 {
		return model.StateStale
	}
	if identicalRun(snapshots) >= decayedRunLen {
		return model.StateDecayed
	}

	days := snapshots[len(snapshots)-1].DaysSinceUpdate
	switch {
	case days < 0:
		// No detectable update signal reads as never updated
		return model.StateStale
	case days < freshWindowDays:
		return model.StateFresh
	case days <= graceWindowDays:
		return model.StateAging
	default:
		return model.StateStale
	}
}

// identicalRun counts how many trailing snapshots share the newest hash
func identicalRun(snapshots []model.ContentSnapshot) int {
	last := snapshots[len(snapshots)-1].ContentHash
	run := 0
	for i := len(snapshots) - 1; i >= 0; i-- {
		if snapshots[i].ContentHash != last {
			break
		}
		run++
	}
	return run
}

// LeadTime is the target's age minus the competitor average, in days.
// Positive means competitors updated more recently.
func (t *Tracker) LeadTime(own int, competitorDays []int) int {
	if own < 0 || len(competitorDays) == 0 {
		return 0
	}
	sum := 0
	n := 0
	for _, d := range competitorDays {
		if d >= 0 {
			sum += d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return own - sum/n
}

// Check raises an alert only when both conditions hold: the page has fallen
// behind competitors AND its citation accuracy is degrading. Either signal
// alone is noise.
func (t *Tracker) Check(target string, snapshots []model.ContentSnapshot, leadTime int, accuracy float64) *model.DecayAlert {
	if leadTime < 0 || accuracy >= 0.90 {
		return nil
	}
	state := t.State(snapshots)
	return &model.DecayAlert{
		Target:            target,
		State:             state,
		FreshnessLeadTime: leadTime,
		CitationAccuracy:  accuracy,
		RaisedAt:          time.Now().UTC(),
		Message: fmt.Sprintf("%s is %s, trails competitors by %d days, citation accuracy %.0f%%",
			target, state, leadTime, accuracy*100),
	}
}
