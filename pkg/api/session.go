package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rubiojr/tweetmetrics/pkg/chart"
	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/rubiojr/tweetmetrics/pkg/view"
)

const writeTimeout = 10 * time.Second

// wsSurface is a browser page reached over a websocket. The page reports
// readiness once Highcharts has loaded.
type wsSurface struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	ready     chan struct{}
	readyOnce sync.Once
}

func newWSSurface(conn *websocket.Conn) *wsSurface {
	return &wsSurface{conn: conn, ready: make(chan struct{})}
}

func (s *wsSurface) Ready() <-chan struct{} {
	return s.ready
}

func (s *wsSurface) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *wsSurface) Draw(containerID string, spec *chart.Spec) error {
	return s.send(ServerMessage{Type: MsgChart, Container: containerID, Config: spec})
}

func (s *wsSurface) Notice(g dataset.Granularity, message string) error {
	return s.send(ServerMessage{Type: MsgPlaceholder, Mode: g.String(), Message: message})
}

func (s *wsSurface) send(msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// HandleSession upgrades to a websocket and runs one view session. The
// session shows the initial (annual) chart right away and then follows the
// page's selector messages.
func (s *Server) HandleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	id := uuid.NewString()
	activeSessions.Inc()
	defer activeSessions.Dec()
	s.log.Debugf("session %s opened from %s", id, r.RemoteAddr)

	surface := newWSSurface(conn)
	v := view.New(s.data, s.opts)

	if err := surface.send(ServerMessage{Type: MsgSession, Session: id, Mode: v.Current().String()}); err != nil {
		s.log.Warnf("session %s: %v", id, err)
		return
	}
	initial := v.Current()
	go s.show(ctx, id, v, surface, initial, v.Begin(initial))

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warnf("session %s read: %v", id, err)
			}
			s.log.Debugf("session %s closed", id)
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendError(id, surface, "invalid message")
			continue
		}

		switch msg.Type {
		case MsgReady:
			surface.markReady()
		case MsgSelect:
			g, err := dataset.ParseGranularity(msg.Mode)
			if err != nil {
				s.sendError(id, surface, err.Error())
				continue
			}
			go s.show(ctx, id, v, surface, g, v.Begin(g))
		default:
			s.sendError(id, surface, "unknown message type "+msg.Type)
		}
	}
}

func (s *Server) sendError(id string, surface *wsSurface, message string) {
	if err := surface.send(ServerMessage{Type: MsgError, Message: message}); err != nil {
		s.log.Warnf("session %s: %v", id, err)
	}
}

// show delivers selection gen and records the outcome. gen must come from
// v.Begin in message order so the latest selection wins.
func (s *Server) show(ctx context.Context, id string, v *view.View, surface *wsSurface, g dataset.Granularity, gen uint64) {
	err := v.Deliver(ctx, surface, g, gen)
	if err == nil {
		if s.data.Table(g).Empty() {
			placeholdersServed.WithLabelValues(g.Slug(), "websocket").Inc()
		} else {
			chartsServed.WithLabelValues(g.Slug(), "websocket").Inc()
		}
		return
	}

	reason := failureReason(ctx, err)
	renderFailures.WithLabelValues(reason).Inc()
	switch reason {
	case "superseded":
		s.log.Debugf("session %s: %s render superseded", id, g.Slug())
	case "closed":
	default:
		s.log.Warnf("session %s: %v", id, err)
	}
}

// failureReason labels a failed delivery. Writes that fail after the
// session ended count as closed.
func failureReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, view.ErrSuperseded):
		return "superseded"
	case errors.Is(err, context.Canceled), ctx.Err() != nil:
		return "closed"
	case errors.Is(err, view.ErrSurfaceNotReady):
		return "not_ready"
	default:
		return "write"
	}
}
