package model

import "time"

// Dimension identifies one of the ten citability dimensions
type Dimension string

const (
	DimInfrastructure Dimension = "technical_infrastructure"
	DimMetadata       Dimension = "metadata_schema"
	DimStructure      Dimension = "aeo_structure"
	DimEvidence       Dimension = "evidence_density"
	DimEEAT           Dimension = "eeat_authority"
	DimEntity         Dimension = "entity_identification"
	DimFreshness      Dimension = "freshness"
	DimFormat         Dimension = "format_citability"
	DimLinks          Dimension = "links_verifiability"
	DimMultiPlatform  Dimension = "multi_platform"
)

// Dimensions lists all ten dimensions in presentation order
func Dimensions() []Dimension {
	return []Dimension{
		DimInfrastructure, DimMetadata, DimStructure, DimEvidence, DimEEAT,
		DimEntity, DimFreshness, DimFormat, DimLinks, DimMultiPlatform,
	}
}

// SubCheck is one scored component inside a dimension, with its explanation.
// Every point of the total score traces back to one (dimension, sub-check).
type SubCheck struct {
	Name            string   `json:"name"`
	Score           float64  `json:"score"`  // Raw sub-score (0-100)
	Weight          float64  `json:"weight"` // Within the dimension
	Weighted        float64  `json:"weighted_score"`
	Explanation     string   `json:"explanation"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// DimensionResult is one detector's output, produced fresh on every run
type DimensionResult struct {
	Dimension    Dimension      `json:"dimension"`
	Score        float64        `json:"score"`  // Raw dimension score (0-100)
	Weight       float64        `json:"weight"` // From the active weight table
	Contribution float64        `json:"contribution"`
	Breakdown    []SubCheck     `json:"breakdown"`
	Errors       []string       `json:"errors,omitempty"` // Non-fatal, dimension-scoped
	Debug        map[string]any `json:"debug,omitempty"`
}

// Status maps the score to a traffic-light band
func (r DimensionResult) Status() string {
	switch {
	case r.Score >= 80:
		return "green"
	case r.Score >= 50:
		return "yellow"
	default:
		return "red"
	}
}

// AuditResult is the immutable aggregate of one full analysis run
type AuditResult struct {
	Target           string            `json:"target"`
	TotalScore       float64           `json:"total_score"`
	Dimensions       []DimensionResult `json:"dimensions"`
	WeightVersion    string            `json:"weight_version"`
	Platform         string            `json:"platform"`
	PlatformFallback bool              `json:"platform_fallback,omitempty"` // Universal profile substituted
	ContentHash      string            `json:"content_hash"`
	Duration         time.Duration     `json:"analysis_duration"`
	AnalyzedAt       time.Time         `json:"analyzed_at"`
	Recommendations  []string          `json:"recommendations,omitempty"` // Top prioritized items
}

// Clamp bounds a sub-score into [0,100] before aggregation
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
