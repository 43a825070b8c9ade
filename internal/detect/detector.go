// Package detect holds the ten citability dimension detectors. Each detector
// is side-effect-free and sees only the shared immutable document and claim
// set, so the whole set runs concurrently and fails in isolation: a panic in
// one detector becomes that dimension's zero-score result, never an aborted
// run. Adding a dimension means adding one detector here plus one weight
// table entry; the aggregator stays untouched.
package detect

import (
	"fmt"
	"sync"

	"github.com/vkuzmenko/citescope/internal/model"
)

// Detector evaluates one citability dimension
type Detector interface {
	Dimension() model.Dimension
	Evaluate(doc *model.StructuredDocument, claims *model.ClaimSet) model.DimensionResult
}

// registry is the closed set of dimension detectors, keyed by identifier
var registry = map[model.Dimension]Detector{
	model.DimInfrastructure: &InfrastructureDetector{},
	model.DimMetadata:       &MetadataDetector{},
	model.DimStructure:      &StructureDetector{},
	model.DimEvidence:       &EvidenceDensityDetector{},
	model.DimEEAT:           &EEATDetector{},
	model.DimEntity:         &EntityDetector{},
	model.DimFreshness:      &FreshnessDetector{},
	model.DimFormat:         &FormatDetector{},
	model.DimLinks:          &LinksDetector{},
	model.DimMultiPlatform:  &MultiPlatformDetector{},
}

// All returns the registered detectors in stable dimension order
func All() []Detector {
	dims := model.Dimensions()
	out := make([]Detector, 0, len(dims))
	for _, d := range dims {
		out = append(out, registry[d])
	}
	return out
}

// Run evaluates every registered detector concurrently against the shared
// read-only inputs and joins on the barrier. Results come back in dimension
// order regardless of completion order.
func Run(doc *model.StructuredDocument, claims *model.ClaimSet) []model.DimensionResult {
	detectors := All()
	results := make([]model.DimensionResult, len(detectors))

	var wg sync.WaitGroup
	for i, d := range detectors {
		wg.Add(1)
		go func(i int, d Detector) {
			defer wg.Done()
			results[i] = safeEvaluate(d, doc, claims)
		}(i, d)
	}
	wg.Wait()
	return results
}

// safeEvaluate converts a detector panic into a zero-score placeholder so
// the remaining nine keep their results
func safeEvaluate(d Detector, doc *model.StructuredDocument, claims *model.ClaimSet) (result model.DimensionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.DimensionResult{
				Dimension: d.Dimension(),
				Score:     0,
				Errors:    []string{fmt.Sprintf("%s failed: %v", d.Dimension(), r)},
			}
		}
	}()
	result = d.Evaluate(doc, claims)
	result.Score = model.Clamp(result.Score)
	return result
}

// subCheck builds one clamped breakdown item
func subCheck(name string, score, weight float64, explanation string, recs ...string) model.SubCheck {
	score = model.Clamp(score)
	return model.SubCheck{
		Name:            name,
		Score:           score,
		Weight:          weight,
		Weighted:        score * weight,
		Explanation:     explanation,
		Recommendations: recs,
	}
}

// total sums weighted sub-scores into the dimension score
func total(breakdown []model.SubCheck) float64 {
	var sum float64
	for _, b := range breakdown {
		sum += b.Weighted
	}
	return model.Clamp(sum)
}
