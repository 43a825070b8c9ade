package score

import (
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

// Aggregator reduces the ten detector results into an AuditResult. It is a
// pure synchronous reduction: it runs only after the detector barrier and
// never computes with an implicit weight.
type Aggregator struct {
	registry *Registry
}

// NewAggregator wires an aggregator to a validated registry
func NewAggregator(registry *Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// Aggregate weights the dimension results into a total score. Every point of
// the total traces back through Contribution to one dimension's breakdown;
// a failed detector contributes its zero placeholder instead of blocking.
func (a *Aggregator) Aggregate(results []model.DimensionResult, version, platform string) (*model.AuditResult, error) {
	table, fallback, err := a.registry.Resolve(version, platform)
	if err != nil {
		return nil, err
	}
	if platform == "" {
		platform = UniversalPlatform
	}

	dims := make([]model.DimensionResult, len(results))
	totalScore := 0.0
	var recommendations []string

	for i, r := range results {
		r.Score = model.Clamp(r.Score + table.Deltas[r.Dimension])
		r.Weight = table.Weights[r.Dimension]
		r.Contribution = r.Score * r.Weight
		totalScore += r.Contribution
		dims[i] = r

		for _, sub := range r.Breakdown {
			recommendations = append(recommendations, sub.Recommendations...)
		}
	}

	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return &model.AuditResult{
		TotalScore:       model.Clamp(totalScore),
		Dimensions:       dims,
		WeightVersion:    version,
		Platform:         platform,
		PlatformFallback: fallback,
		AnalyzedAt:       time.Now().UTC(),
		Recommendations:  recommendations,
	}, nil
}
