package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/tweetmetrics/pkg/config"
	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/rubiojr/tweetmetrics/pkg/log"
	"github.com/rubiojr/tweetmetrics/pkg/view"
	"github.com/urfave/cli/v3"
)

// errNoData is returned when the selected periodicity has no rows.
var errNoData = errors.New("no data for the selected periodicity")

// ExportCommand creates the export command
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the chart configuration as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Periodicity: Anual or Mensal",
				Value: dataset.Annual.String(),
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Output file (stdout when empty)",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Export again whenever a source file changes",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			g, err := dataset.ParseGranularity(c.String("mode"))
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			if c.Bool("watch") {
				return watchExport(ctx, cfg, g, c.String("output"))
			}
			return exportOnce(ctx, cfg, g, c.String("output"))
		},
	}
}

// exportChart writes the chart configuration for g to w.
func exportChart(w io.Writer, data *view.DataContext, g dataset.Granularity) error {
	res := view.Render(data, g)
	if !res.HasChart() {
		return fmt.Errorf("%w: %s", errNoData, res.Placeholder)
	}

	raw, err := res.Spec.JSON()
	if err != nil {
		return fmt.Errorf("encoding chart: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", raw)
	return err
}

func exportOnce(ctx context.Context, cfg *config.Config, g dataset.Granularity, output string) error {
	data := loadDataContext(ctx, cfg)

	if output == "" {
		return exportChart(os.Stdout, data, g)
	}

	tmp := output + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := exportChart(f, data, g); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return os.Rename(tmp, output)
}

// watchExport re-exports whenever one of the two source files is written or
// replaced. Directories are watched so atomic replaces are seen too.
func watchExport(ctx context.Context, cfg *config.Config, g dataset.Granularity, output string) error {
	l := log.ForService("export")

	if err := exportOnce(ctx, cfg, g, output); err != nil {
		l.Warnf("export failed: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			l.Warnf("closing file watcher: %v", err)
		}
	}()

	sources := map[string]bool{}
	for _, src := range []string{cfg.Sources.Annual.Path, cfg.Sources.Monthly.Path} {
		abs, err := filepath.Abs(src)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", src, err)
		}
		sources[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
		}
		l.Infof("watching %s", abs)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Editors and spreadsheet apps emit bursts of events per save.
	const settle = 200 * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sigCh:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if !sources[abs] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				l.Debugf("source changed: %s (%s)", event.Name, event.Op)
				pending = time.After(settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Warnf("watcher error: %v", err)
		case <-pending:
			pending = nil
			if err := exportOnce(ctx, cfg, g, output); err != nil {
				l.Warnf("export failed: %v", err)
				continue
			}
			l.Infof("chart exported for %s", g)
		}
	}
}
