package cmd

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rubiojr/tweetmetrics/pkg/config"
	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/rubiojr/tweetmetrics/pkg/view"
)

func fixtureData(withMonthly bool) *view.DataContext {
	annual := dataset.NewTable(dataset.Annual, "vegan", "test", []dataset.Record{
		{Timestamp: time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), Value: 100},
		{Timestamp: time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC), Value: 101},
	})
	var monthly *dataset.Table
	if withMonthly {
		monthly = dataset.NewTable(dataset.Monthly, "vegan", "test", []dataset.Record{
			{Timestamp: time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), Value: 20},
		})
	}
	return view.FromSources(annual, monthly)
}

func setupTestWebServer(t *testing.T, withMonthly bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewWebServer(fixtureData(withMonthly), view.Options{}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestHomePage(t *testing.T) {
	srv := setupTestWebServer(t, false)

	resp, body := get(t, srv.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	mustContain := []string{
		"<title>Métricas em tweets</title>",
		`<div id="container"`,
		`name="periodicidade" value="Anual" checked`,
		`name="periodicidade" value="Mensal">`,
		"Selecione a periodicidade:",
		"https://code.highcharts.com/highcharts.js",
		`<script src="/static/chart.js">`,
		"Mensal: indisponível",
		"Anual: 2 linhas",
	}
	for _, s := range mustContain {
		if !strings.Contains(body, s) {
			t.Errorf("page missing %q", s)
		}
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	srv := setupTestWebServer(t, true)

	resp, _ := get(t, srv.URL+"/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStaticScript(t *testing.T) {
	srv := setupTestWebServer(t, true)

	resp, body := get(t, srv.URL+"/static/chart.js")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/javascript" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(body, "type: 'ready'") || !strings.Contains(body, "Highcharts.chart(") {
		t.Errorf("unexpected script body")
	}

	resp, _ = get(t, srv.URL+"/static/missing.js")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing asset status = %d", resp.StatusCode)
	}
}

func TestAPIMountedOnWebServer(t *testing.T) {
	srv := setupTestWebServer(t, true)

	resp, body := get(t, srv.URL+"/api/chart?periodicidade=Mensal")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var chartResp struct {
		Mode   string         `json:"mode"`
		Config map[string]any `json:"config"`
	}
	if err := json.Unmarshal([]byte(body), &chartResp); err != nil {
		t.Fatal(err)
	}
	if chartResp.Mode != "Mensal" || chartResp.Config == nil {
		t.Fatalf("unexpected response: %s", body)
	}
}

func TestExportChart(t *testing.T) {
	var buf bytes.Buffer
	if err := exportChart(&buf, fixtureData(true), dataset.Annual); err != nil {
		t.Fatalf("exportChart: %v", err)
	}

	var spec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &spec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	cats := spec["xAxis"].(map[string]any)["categories"].([]any)
	if len(cats) != 2 || cats[0] != "2012" {
		t.Fatalf("categories = %v", cats)
	}

	err := exportChart(&buf, fixtureData(false), dataset.Monthly)
	if !errors.Is(err, errNoData) {
		t.Fatalf("err = %v, want errNoData", err)
	}
}

func TestExportOnceFromConfig(t *testing.T) {
	dir := t.TempDir()
	annual := filepath.Join(dir, "annual.csv")
	if err := os.WriteFile(annual, []byte("created_at,vegan\n2012,100\n2013,101\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.GetDefaultConfig()
	cfg.Sources.Annual.Path = annual
	cfg.Sources.Monthly.Path = filepath.Join(dir, "missing.csv")

	out := filepath.Join(dir, "chart.json")
	if err := exportOnce(t.Context(), cfg, dataset.Annual, out); err != nil {
		t.Fatalf("exportOnce: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"data":[40,40]`) {
		t.Fatalf("unexpected export: %s", raw)
	}

	if err := exportOnce(t.Context(), cfg, dataset.Monthly, filepath.Join(dir, "monthly.json")); !errors.Is(err, errNoData) {
		t.Fatalf("monthly export err = %v, want errNoData", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "monthly.json.tmp")); !os.IsNotExist(err) {
		t.Fatal("temporary export file left behind")
	}
}

func TestRenderStats(t *testing.T) {
	out := renderStats(fixtureData(false))

	for _, s := range []string{"Anual", "2 linhas, 2012 a 2013", "Posted", "Dados mensais não disponíveis"} {
		if !strings.Contains(out, s) {
			t.Errorf("stats output missing %q:\n%s", s, out)
		}
	}
}

func TestImportSnapshot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "annual.csv"), []byte("created_at,vegan\n2012,100\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "monthly.csv"), []byte("created_at,vegan\n2021-06-15,20\n"), 0644); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(dir, "config.toml")
	cfgText := "[sources.annual]\npath = \"annual.csv\"\n[sources.monthly]\npath = \"monthly.csv\"\n"
	if err := os.WriteFile(configPath, []byte(cfgText), 0644); err != nil {
		t.Fatal(err)
	}

	snapshot := filepath.Join(dir, "snapshot.db")
	if err := importSnapshot(t.Context(), configPath, snapshot); err != nil {
		t.Fatalf("importSnapshot: %v", err)
	}

	tbl, err := dataset.Load(t.Context(), dataset.Source{Path: snapshot, Granularity: dataset.Monthly, Keyword: "vegan"})
	if err != nil {
		t.Fatalf("loading snapshot: %v", err)
	}
	if tbl.Len() != 1 || tbl.Records()[0].Value != 20 {
		t.Fatalf("snapshot rows = %+v", tbl.Records())
	}
}
