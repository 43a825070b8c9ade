// Package score owns the versioned weight tables and the aggregation of
// detector results into a final audit. Weight tables are immutable once
// loaded; the registry is built before any audit runs and never mutated, so
// two runs with the same version are always comparable.
package score

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vkuzmenko/citescope/internal/model"
)

const weightTolerance = 1e-6

// UniversalPlatform is the fallback profile every version must define
const UniversalPlatform = "universal"

// WeightTable maps every dimension to its weight; weights sum to 1.0
type WeightTable struct {
	Weights map[model.Dimension]float64 `yaml:"weights"`
	// Deltas adjust the multi_platform raw score for a specific platform
	// before weighting; empty for the universal profile
	Deltas map[model.Dimension]float64 `yaml:"deltas,omitempty"`
}

// Version is one immutable scoring configuration with per-platform variants
type Version struct {
	Name      string                 `yaml:"name"`
	Universal WeightTable            `yaml:"universal"`
	Platforms map[string]WeightTable `yaml:"platforms,omitempty"`
}

// Registry resolves weight-table versions; validated at load, read-only after
type Registry struct {
	versions map[string]Version
}

// NewRegistry builds a registry from the built-in versions
func NewRegistry() (*Registry, error) {
	return newRegistry(builtinVersions())
}

// NewRegistryFromFile layers YAML-defined versions over the built-ins
func NewRegistryFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}
	var extra []Version
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse weights file: %w", err)
	}
	return newRegistry(append(builtinVersions(), extra...))
}

func newRegistry(versions []Version) (*Registry, error) {
	r := &Registry{versions: make(map[string]Version, len(versions))}
	for _, v := range versions {
		if err := validate(v); err != nil {
			return nil, fmt.Errorf("weight version %s: %w", v.Name, err)
		}
		r.versions[v.Name] = v
	}
	return r, nil
}

// Resolve returns the weight table for (version, platform). An unknown
// version is a hard error; an unknown platform falls back to the universal
// profile with the fallback flag set.
func (r *Registry) Resolve(version, platform string) (WeightTable, bool, error) {
	v, ok := r.versions[version]
	if !ok {
		return WeightTable{}, false, &model.WeightVersionError{Version: version}
	}
	if platform == "" || platform == UniversalPlatform {
		return v.Universal, false, nil
	}
	if table, ok := v.Platforms[platform]; ok {
		return table, false, nil
	}
	return v.Universal, true, nil
}

// Versions lists the registered version names
func (r *Registry) Versions() []string {
	out := make([]string, 0, len(r.versions))
	for name := range r.versions {
		out = append(out, name)
	}
	return out
}

// Tables exposes the full registry content for the scoring-weights endpoint
func (r *Registry) Tables() map[string]Version {
	out := make(map[string]Version, len(r.versions))
	for k, v := range r.versions {
		out[k] = v
	}
	return out
}

// validate enforces the load-time invariants: all ten dimensions present in
// every table and weights summing to 1.0 within tolerance
func validate(v Version) error {
	if v.Name == "" {
		return fmt.Errorf("missing version name")
	}
	if err := validateTable(v.Universal); err != nil {
		return fmt.Errorf("universal profile: %w", err)
	}
	for platform, table := range v.Platforms {
		if err := validateTable(table); err != nil {
			return fmt.Errorf("platform %s: %w", platform, err)
		}
	}
	return nil
}

func validateTable(t WeightTable) error {
	sum := 0.0
	for _, dim := range model.Dimensions() {
		w, ok := t.Weights[dim]
		if !ok {
			return fmt.Errorf("dimension %s missing", dim)
		}
		if w < 0 || w > 1 {
			return fmt.Errorf("dimension %s weight %v out of range", dim, w)
		}
		sum += w
	}
	if len(t.Weights) != len(model.Dimensions()) {
		return fmt.Errorf("unexpected extra dimensions in table")
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("weights sum to %v, want 1.0", sum)
	}
	return nil
}

func builtinVersions() []Version {
	return []Version{
		{
			Name: "v1.0",
			Universal: WeightTable{Weights: map[model.Dimension]float64{
				model.DimInfrastructure: 0.15,
				model.DimMetadata:       0.10,
				model.DimStructure:      0.20,
				model.DimEvidence:       0.10,
				model.DimEEAT:           0.15,
				model.DimEntity:         0.10,
				model.DimFreshness:      0.10,
				model.DimFormat:         0.05,
				model.DimLinks:          0.05,
				model.DimMultiPlatform:  0.00,
			}},
		},
		{
			Name: "v2.0",
			Universal: WeightTable{Weights: map[model.Dimension]float64{
				model.DimInfrastructure: 0.12,
				model.DimMetadata:       0.08,
				model.DimStructure:      0.18,
				model.DimEvidence:       0.15,
				model.DimEEAT:           0.15,
				model.DimEntity:         0.08,
				model.DimFreshness:      0.10,
				model.DimFormat:         0.06,
				model.DimLinks:          0.05,
				model.DimMultiPlatform:  0.03,
			}},
			Platforms: map[string]WeightTable{
				"perplexity": {
					Weights: map[model.Dimension]float64{
						model.DimInfrastructure: 0.10,
						model.DimMetadata:       0.08,
						model.DimStructure:      0.15,
						model.DimEvidence:       0.20,
						model.DimEEAT:           0.14,
						model.DimEntity:         0.08,
						model.DimFreshness:      0.10,
						model.DimFormat:         0.05,
						model.DimLinks:          0.07,
						model.DimMultiPlatform:  0.03,
					},
					Deltas: map[model.Dimension]float64{
						model.DimMultiPlatform: 10, // Citation-first engine rewards portable structure
					},
				},
				"chatgpt": {
					Weights: map[model.Dimension]float64{
						model.DimInfrastructure: 0.10,
						model.DimMetadata:       0.10,
						model.DimStructure:      0.20,
						model.DimEvidence:       0.13,
						model.DimEEAT:           0.15,
						model.DimEntity:         0.09,
						model.DimFreshness:      0.08,
						model.DimFormat:         0.07,
						model.DimLinks:          0.05,
						model.DimMultiPlatform:  0.03,
					},
				},
				"gemini": {
					Weights: map[model.Dimension]float64{
						model.DimInfrastructure: 0.12,
						model.DimMetadata:       0.12,
						model.DimStructure:      0.16,
						model.DimEvidence:       0.13,
						model.DimEEAT:           0.14,
						model.DimEntity:         0.09,
						model.DimFreshness:      0.10,
						model.DimFormat:         0.06,
						model.DimLinks:          0.05,
						model.DimMultiPlatform:  0.03,
					},
					Deltas: map[model.Dimension]float64{
						model.DimMultiPlatform: 5,
					},
				},
				"copilot": {
					Weights: map[model.Dimension]float64{
						model.DimInfrastructure: 0.12,
						model.DimMetadata:       0.08,
						model.DimStructure:      0.16,
						model.DimEvidence:       0.14,
						model.DimEEAT:           0.14,
						model.DimEntity:         0.08,
						model.DimFreshness:      0.13,
						model.DimFormat:         0.06,
						model.DimLinks:          0.06,
						model.DimMultiPlatform:  0.03,
					},
				},
			},
		},
	}
}
