package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/tweetmetrics/pkg/chart"
	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/rubiojr/tweetmetrics/pkg/engagement"
	"github.com/rubiojr/tweetmetrics/pkg/view"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	blockStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 2)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show a summary of both derived datasets",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			fmt.Print(renderStats(loadDataContext(ctx, cfg)))
			return nil
		},
	}
}

// renderStats formats row counts, range and metric totals per periodicity.
func renderStats(data *view.DataContext) string {
	p := message.NewPrinter(language.BrazilianPortuguese)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Métricas em tweets") + "\n")

	for _, g := range dataset.Granularities {
		t := data.Table(g)
		var body strings.Builder
		body.WriteString(headerStyle.Render(g.String()) + "\n")

		if t.Empty() {
			body.WriteString(noDataStyle.Render(view.Placeholder(g)))
			b.WriteString(blockStyle.Render(body.String()) + "\n")
			continue
		}

		cats := chart.Categories(t, g)
		body.WriteString(p.Sprintf("%d linhas, %s a %s\n", t.Len(), cats[0], cats[len(cats)-1]))
		for i, m := range engagement.Metrics {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(chart.Palette[i])).Render("■")
			body.WriteString(p.Sprintf("%s %-10s %d\n", swatch, m, t.Sum(m)))
		}
		b.WriteString(blockStyle.Render(strings.TrimRight(body.String(), "\n")) + "\n")
	}

	return b.String()
}
