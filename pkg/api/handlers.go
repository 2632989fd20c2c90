package api

import (
	"net/http"
	"time"

	"github.com/rubiojr/tweetmetrics/pkg/chart"
	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/rubiojr/tweetmetrics/pkg/engagement"
	"github.com/rubiojr/tweetmetrics/pkg/version"
	"github.com/rubiojr/tweetmetrics/pkg/view"
)

// HandleChart returns the chart configuration for ?periodicidade=Anual|Mensal
// (default Anual).
func (s *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	g := dataset.Annual
	if raw := r.URL.Query().Get("periodicidade"); raw != "" {
		var err error
		g, err = dataset.ParseGranularity(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid periodicity", err.Error())
			return
		}
	}

	res := view.Render(s.data, g)
	response := ChartResponse{Mode: g.String()}
	if res.HasChart() {
		response.Container = chart.ContainerID
		response.Config = res.Spec
		chartsServed.WithLabelValues(g.Slug(), "http").Inc()
	} else {
		response.Placeholder = res.Placeholder
		placeholdersServed.WithLabelValues(g.Slug(), "http").Inc()
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleDatasets(w http.ResponseWriter, r *http.Request) {
	infos := make([]DatasetInfo, 0, len(dataset.Granularities))
	for _, g := range dataset.Granularities {
		infos = append(infos, datasetInfo(s.data.Table(g), g))
	}

	s.writeJSON(w, http.StatusOK, DatasetsResponse{Datasets: infos, Count: len(infos)})
}

func datasetInfo(t engagement.Table, g dataset.Granularity) DatasetInfo {
	info := DatasetInfo{
		Mode:      g.String(),
		Rows:      t.Len(),
		Posted:    t.Sum(engagement.Posted),
		Retweeted: t.Sum(engagement.Retweeted),
		Replied:   t.Sum(engagement.Replied),
	}
	if cats := chart.Categories(t, g); len(cats) > 0 {
		info.First = cats[0]
		info.Last = cats[len(cats)-1]
	}
	return info
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, response)
}
