package api

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/chart", gzhttp.GzipHandler(http.HandlerFunc(s.HandleChart)))
	mux.Handle("GET /api/datasets", gzhttp.GzipHandler(http.HandlerFunc(s.HandleDatasets)))
	// Not compressed: the upgrade needs the raw connection.
	mux.HandleFunc("GET /ws", s.HandleSession)
	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
}
