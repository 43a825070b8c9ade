package probe

import (
	"fmt"
	"sort"

	"github.com/vkuzmenko/citescope/internal/model"
)

// Build constructs one prober per configured platform, in stable name
// order. Platforms without an API key are skipped, not fatal.
func Build(cfg model.ProbeConfig) ([]*Prober, error) {
	names := make([]string, 0, len(cfg.Platforms))
	for name := range cfg.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)

	var probers []*Prober
	for _, name := range names {
		pc := cfg.Platforms[name]
		if pc.APIKey == "" {
			continue
		}
		engine, err := NewOpenAIEngine(name, pc)
		if err != nil {
			return nil, fmt.Errorf("building engine for %s: %w", name, err)
		}
		probers = append(probers, NewProber(engine, cfg.MaxAttempts, cfg.Timeout))
	}
	if len(probers) == 0 {
		return nil, fmt.Errorf("no platforms configured with api keys")
	}
	return probers, nil
}
