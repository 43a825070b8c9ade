package score

import (
	"errors"
	"math"
	"testing"

	"github.com/vkuzmenko/citescope/internal/model"
)

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestBuiltinTablesSumToOne(t *testing.T) {
	r := mustRegistry(t)
	for name, version := range r.Tables() {
		tables := map[string]WeightTable{"universal": version.Universal}
		for platform, table := range version.Platforms {
			tables[platform] = table
		}
		for platform, table := range tables {
			sum := 0.0
			for _, dim := range model.Dimensions() {
				w, ok := table.Weights[dim]
				if !ok {
					t.Errorf("%s/%s: dimension %s missing", name, platform, dim)
				}
				sum += w
			}
			if math.Abs(sum-1.0) > weightTolerance {
				t.Errorf("%s/%s: weights sum to %v", name, platform, sum)
			}
		}
	}
}

func TestResolveUnknownVersion(t *testing.T) {
	r := mustRegistry(t)
	_, _, err := r.Resolve("v9.9", "")
	var versionErr *model.WeightVersionError
	if !errors.As(err, &versionErr) {
		t.Fatalf("err = %v, want WeightVersionError", err)
	}
	if versionErr.Version != "v9.9" {
		t.Errorf("error names version %q", versionErr.Version)
	}
}

func TestResolvePlatformFallback(t *testing.T) {
	r := mustRegistry(t)

	_, fallback, err := r.Resolve("v2.0", "perplexity")
	if err != nil || fallback {
		t.Errorf("known platform: fallback=%v err=%v", fallback, err)
	}

	table, fallback, err := r.Resolve("v2.0", "some-new-engine")
	if err != nil {
		t.Fatalf("unknown platform: %v", err)
	}
	if !fallback {
		t.Error("unknown platform should set the fallback flag")
	}
	universal, _, _ := r.Resolve("v2.0", "")
	if table.Weights[model.DimEvidence] != universal.Weights[model.DimEvidence] {
		t.Error("fallback table should be the universal profile")
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	missing := Version{Name: "bad", Universal: WeightTable{Weights: map[model.Dimension]float64{
		model.DimEvidence: 1.0,
	}}}
	if err := validate(missing); err == nil {
		t.Error("table missing dimensions validated")
	}

	full := builtinVersions()[1]
	full.Name = "skewed"
	full.Universal.Weights = map[model.Dimension]float64{}
	for dim, w := range builtinVersions()[1].Universal.Weights {
		full.Universal.Weights[dim] = w
	}
	full.Universal.Weights[model.DimEvidence] += 0.05
	if err := validate(full); err == nil {
		t.Error("weights summing to 1.05 validated")
	}
}
