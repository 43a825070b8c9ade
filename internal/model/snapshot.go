package model

import "time"

// FreshnessState is one state of the per-target decay machine
type FreshnessState string

const (
	StateFresh   FreshnessState = "fresh"   // Updated within 30 days
	StateAging   FreshnessState = "aging"   // 30-90 days since update
	StateStale   FreshnessState = "stale"   // Past the 90-day grace window
	StateDecayed FreshnessState = "decayed" // Three identical hashes in a row; exits only on change
)

// ContentSnapshot is appended once per audit; never mutated
type ContentSnapshot struct {
	Target          string    `json:"target"`
	ContentHash     string    `json:"content_hash"`
	TakenAt         time.Time `json:"taken_at"`
	AuditID         string    `json:"audit_id,omitempty"`
	TotalScore      float64   `json:"total_score"`
	DaysSinceUpdate int       `json:"days_since_update"` // -1 when no update signal was detected
}

// DecayAlert is raised when staleness and citation accuracy degrade together
type DecayAlert struct {
	Target            string         `json:"target"`
	State             FreshnessState `json:"state"`
	FreshnessLeadTime int            `json:"freshness_lead_time"` // Own age minus competitor average, days
	CitationAccuracy  float64        `json:"citation_accuracy"`
	RaisedAt          time.Time      `json:"raised_at"`
	Message           string         `json:"message"`
}
