package cli

import (
	"fmt"
	"time"

	"github.com/vkuzmenko/citescope/internal/cache"
	"github.com/vkuzmenko/citescope/internal/model"
	"github.com/vkuzmenko/citescope/internal/pipeline"
	"github.com/vkuzmenko/citescope/internal/score"
	"github.com/vkuzmenko/citescope/internal/store"
)

// buildRegistry loads weight tables, preferring a user overrides file
func buildRegistry(cfg *model.Config) (*score.Registry, error) {
	if cfg.Scoring.WeightsFile != "" {
		return score.NewRegistryFromFile(cfg.Scoring.WeightsFile)
	}
	return score.NewRegistry()
}

// buildAnalyzer assembles the audit pipeline with cache and history wired
// in. The returned store is nil when persistence is disabled.
func buildAnalyzer(cfg *model.Config) (*pipeline.Analyzer, *score.Registry, *store.Store, error) {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading weight tables: %w", err)
	}

	analyzer := pipeline.NewAnalyzer(cfg, registry)

	if cfg.Cache.Enabled {
		memory := cache.NewMemoryCache(cfg.Cache.FreshnessWindow)
		disk, err := cache.NewDiskCache(cfg.Cache.Dir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening cache: %w", err)
		}
		layered := cache.NewLayeredCache(memory, disk)
		analyzer.UseCache(cache.NewAuditCache(layered, cfg.Cache.FreshnessWindow))
	}

	var db *store.Store
	if cfg.Store.Path != "" {
		db, err = store.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening history store: %w", err)
		}
		analyzer.UseRecorder(db)
	}

	return analyzer, registry, db, nil
}

// kpiWindow returns the trailing window pair used for comparisons
func kpiWindow(now time.Time, span time.Duration) (currentStart, currentEnd, previousStart, previousEnd time.Time) {
	currentEnd = now
	currentStart = now.Add(-span)
	previousEnd = currentStart
	previousStart = currentStart.Add(-span)
	return
}
