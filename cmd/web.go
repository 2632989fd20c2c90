package cmd

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rubiojr/tweetmetrics/cmd/web/components"
	"github.com/rubiojr/tweetmetrics/cmd/web/components/types"
	"github.com/rubiojr/tweetmetrics/pkg/api"
	"github.com/rubiojr/tweetmetrics/pkg/chart"
	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/rubiojr/tweetmetrics/pkg/log"
	"github.com/rubiojr/tweetmetrics/pkg/version"
	"github.com/rubiojr/tweetmetrics/pkg/view"
	"github.com/urfave/cli/v3"
)

//go:embed web/static/*
var staticFS embed.FS

const highchartsURL = "https://code.highcharts.com/highcharts.js"

// WebCommand creates the web command serving the chart page and its API
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the engagement chart page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (defaults to web.port from the config)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (defaults to web.host from the config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"))
		},
	}
}

// WebServer holds the page dependencies
type WebServer struct {
	data      *view.DataContext
	apiServer *api.Server
	log       *log.Logger
}

// NewWebServer builds the page server over an already loaded data context.
func NewWebServer(data *view.DataContext, opts view.Options) *WebServer {
	return &WebServer{
		data:      data,
		apiServer: api.NewServer(data, opts),
		log:       log.ForService("web"),
	}
}

// Handler returns the complete HTTP handler: page, static assets and API.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	s.apiServer.RegisterRoutes(mux)

	mux.Handle("GET /{$}", gzhttp.GzipHandler(http.HandlerFunc(s.handleHome)))
	mux.Handle("GET /static/", gzhttp.GzipHandler(http.HandlerFunc(s.handleStatic)))

	return api.CorsMiddleware(mux)
}

// startWebServer loads both datasets once and serves until interrupted
func startWebServer(ctx context.Context, configPath, host, port string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if host == "" {
		host = cfg.Web.Host
	}
	if port == "" {
		port = cfg.Web.Port
	}

	webServer := NewWebServer(loadDataContext(ctx, cfg), renderOptions(cfg))
	l := webServer.log

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", host, port),
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Infof("Starting web server on http://%s:%s", host, port)
		l.Infof("Available endpoints:")
		l.Infof("    GET / - Chart page")
		l.Infof("    GET /api/chart?periodicidade=Anual|Mensal - Chart configuration")
		l.Infof("    GET /api/datasets - Loaded dataset summary")
		l.Infof("    GET /ws - View session websocket")
		l.Infof("    GET /health - Health check")
		l.Infof("    GET /metrics - Prometheus metrics")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("Server failed to start: %v", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	l.Infof("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// handleHome serves the chart page
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	summaries := make([]types.DatasetSummary, 0, len(dataset.Granularities))
	for _, g := range dataset.Granularities {
		t := s.data.Table(g)
		summaries = append(summaries, types.DatasetSummary{
			Label:     g.String(),
			Rows:      t.Len(),
			Available: !t.Empty(),
		})
	}

	data := types.PageData{
		Title:         "Métricas em tweets",
		SidebarTitle:  "Controles",
		SelectorLabel: "Selecione a periodicidade:",
		Options:       components.PeriodOptions(dataset.Annual),
		ContainerID:   chart.ContainerID,
		HighchartsURL: highchartsURL,
		Datasets:      summaries,
		Version:       version.APIVersion(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Index(data).Render(r.Context(), w); err != nil {
		s.log.Errorf("rendering page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	filePath := "web/static/" + strings.TrimPrefix(r.URL.Path, "/static/")

	content, err := staticFS.ReadFile(filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(filePath, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := w.Write(content); err != nil {
		s.log.Warnf("writing static content: %v", err)
	}
}
