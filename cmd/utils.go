package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/tweetmetrics/pkg/config"
	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/rubiojr/tweetmetrics/pkg/view"
)

// loadConfig reads the config file and resolves relative source paths
// against its directory.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.ResolvePaths(configPath)
	return cfg, nil
}

// sourceFor builds the loader source for g from the config.
func sourceFor(cfg *config.Config, g dataset.Granularity) dataset.Source {
	sc := cfg.Sources.Annual
	if g == dataset.Monthly {
		sc = cfg.Sources.Monthly
	}
	return dataset.Source{
		Path:        sc.Path,
		Granularity: g,
		Keyword:     cfg.Keyword,
		Sheet:       sc.Sheet,
		Table:       sc.Table,
	}
}

// loadSources loads both datasets. Failures are logged and leave the
// corresponding table nil.
func loadSources(ctx context.Context, cfg *config.Config) (annual, monthly *dataset.Table) {
	annual = dataset.LoadOrAbsent(ctx, sourceFor(cfg, dataset.Annual))
	monthly = dataset.LoadOrAbsent(ctx, sourceFor(cfg, dataset.Monthly))
	return annual, monthly
}

// loadDataContext loads and splits both datasets once.
func loadDataContext(ctx context.Context, cfg *config.Config) *view.DataContext {
	return view.FromSources(loadSources(ctx, cfg))
}

func renderOptions(cfg *config.Config) view.Options {
	return view.Options{
		RetryInterval: cfg.Render.RetryInterval.Duration,
		MaxAttempts:   cfg.Render.MaxAttempts,
	}
}
