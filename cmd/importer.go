package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/urfave/cli/v3"
)

// ImportCommand creates the import command
func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Load both sources and store them in a SQLite snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Usage:    "Snapshot database path (.db)",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return importSnapshot(ctx, c.String("config"), c.String("output"))
		},
	}
}

// importSnapshot writes the loaded tables to a SQLite database that can be
// used as a source afterwards (sources.*.path = "snapshot.db").
func importSnapshot(ctx context.Context, configPath, output string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	annual, monthly := loadSources(ctx, cfg)
	if annual == nil && monthly == nil {
		return fmt.Errorf("no source could be loaded")
	}

	if err := dataset.WriteSnapshot(ctx, output, annual, monthly); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	fmt.Printf("Snapshot written to %s (%d annual rows, %d monthly rows)\n", output, annual.Len(), monthly.Len())
	return nil
}
