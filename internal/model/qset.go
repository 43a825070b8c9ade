package model

import "time"

// Intent categorizes why a user would ask a tracked question
type Intent string

const (
	IntentInformational Intent = "informational"
	IntentNavigational  Intent = "navigational"
	IntentTransactional Intent = "transactional"
)

// Priority orders Q-set entries for probing
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// QSetEntry is one tracked question mapped to a target page.
// User-editable; never participates in scoring, only in the orchestrator.
type QSetEntry struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	Intent    Intent   `json:"intent"`
	Priority  Priority `json:"priority"`
	TargetURL string   `json:"target_url"`
}

// CitationObservation is one probe result, the append-only unit KPIs derive from
type CitationObservation struct {
	ID          string    `json:"id"`
	EntryID     string    `json:"entry_id"`
	Platform    string    `json:"platform"`
	ObservedAt  time.Time `json:"observed_at"`
	Cited       bool      `json:"cited"`
	SourceShown bool      `json:"source_shown"`
	Accurate    bool      `json:"accurate"`
	Failed      bool      `json:"failed"` // Probe exhausted retries; recorded as unknown
	Answer      string    `json:"answer,omitempty"`
}

// KPIReport aggregates observations over a trailing window
type KPIReport struct {
	Platform         string    `json:"platform"`
	WindowStart      time.Time `json:"window_start"`
	WindowEnd        time.Time `json:"window_end"`
	TotalProbes      int       `json:"total_probes"`
	FailedProbes     int       `json:"failed_probes"`
	ShareOfVoice     float64   `json:"share_of_voice"`    // cited / total
	AnswerCoverage   float64   `json:"answer_coverage"`   // source shown / total relevant
	CitationAccuracy float64   `json:"citation_accuracy"` // accurate / cited
}

// EntryDelta surfaces one question's period-over-period movement
type EntryDelta struct {
	EntryID  string `json:"entry_id"`
	Question string `json:"question"`
	Platform string `json:"platform"`
	WasCited bool   `json:"was_cited"`
	NowCited bool   `json:"now_cited"`
}

// KPIComparison pairs current and previous windows with per-entry deltas
type KPIComparison struct {
	Current  KPIReport    `json:"current"`
	Previous KPIReport    `json:"previous"`
	Regained []EntryDelta `json:"regained,omitempty"` // Not cited before, cited now
	Lost     []EntryDelta `json:"lost,omitempty"`     // Cited before, not cited now
}
