package api

import (
	"time"

	"github.com/rubiojr/tweetmetrics/pkg/chart"
)

// ChartResponse carries either a chart configuration or a placeholder.
type ChartResponse struct {
	Mode        string      `json:"mode"`
	Container   string      `json:"container,omitempty"`
	Config      *chart.Spec `json:"config,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
}

type DatasetInfo struct {
	Mode      string `json:"mode"`
	Rows      int    `json:"rows"`
	First     string `json:"first,omitempty"`
	Last      string `json:"last,omitempty"`
	Posted    int64  `json:"posted"`
	Retweeted int64  `json:"retweeted"`
	Replied   int64  `json:"replied"`
}

type DatasetsResponse struct {
	Datasets []DatasetInfo `json:"datasets"`
	Count    int           `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Websocket message types.
const (
	MsgReady       = "ready"
	MsgSelect      = "select"
	MsgSession     = "session"
	MsgChart       = "chart"
	MsgPlaceholder = "placeholder"
	MsgError       = "error"
)

// ClientMessage is sent by the page: {"type":"ready"} once the rendering
// library has loaded, {"type":"select","mode":"Mensal"} on selector changes.
type ClientMessage struct {
	Type string `json:"type"`
	Mode string `json:"mode,omitempty"`
}

type ServerMessage struct {
	Type      string      `json:"type"`
	Session   string      `json:"session,omitempty"`
	Mode      string      `json:"mode,omitempty"`
	Container string      `json:"container,omitempty"`
	Config    *chart.Spec `json:"config,omitempty"`
	Message   string      `json:"message,omitempty"`
}
