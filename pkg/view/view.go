package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rubiojr/tweetmetrics/pkg/chart"
	"github.com/rubiojr/tweetmetrics/pkg/dataset"
	"github.com/rubiojr/tweetmetrics/pkg/log"
)

var (
	// ErrSurfaceNotReady is returned when the surface did not signal
	// readiness within the retry budget.
	ErrSurfaceNotReady = errors.New("rendering surface not ready")
	// ErrSuperseded is returned when a newer selection replaced the one being
	// delivered.
	ErrSuperseded = errors.New("render superseded by a newer selection")
)

const (
	DefaultRetryInterval = 50 * time.Millisecond
	DefaultMaxAttempts   = 100
)

// Surface is where charts end up, typically a browser page running the
// rendering library.
type Surface interface {
	// Ready is closed once the rendering library can draw.
	Ready() <-chan struct{}
	// Draw renders spec into the element with the given id.
	Draw(containerID string, spec *chart.Spec) error
	// Notice shows a console-visible message instead of a chart.
	Notice(g dataset.Granularity, message string) error
}

// Result is the outcome of a selection: a chart, or a placeholder message
// when the dataset has no rows.
type Result struct {
	Granularity dataset.Granularity
	Spec        *chart.Spec
	Placeholder string
}

// HasChart reports whether the result carries a chart.
func (r Result) HasChart() bool {
	return r.Spec != nil
}

// Placeholder returns the message shown when g has no data.
func Placeholder(g dataset.Granularity) string {
	if g == dataset.Monthly {
		return "Dados mensais não disponíveis"
	}
	return "Dados anuais não disponíveis"
}

// Render builds the result for g from data.
func Render(data *DataContext, g dataset.Granularity) Result {
	t := data.Table(g)
	if t.Empty() {
		return Result{Granularity: g, Placeholder: Placeholder(g)}
	}
	return Result{Granularity: g, Spec: chart.Build(t, g)}
}

type Options struct {
	RetryInterval time.Duration
	MaxAttempts   int
}

// View is the selector state of one session. Initial state is Annual.
type View struct {
	data *DataContext
	opts Options
	log  *log.Logger

	mu         sync.Mutex
	current    dataset.Granularity
	generation uint64

	// deliverMu serializes the supersession check with the write to the
	// surface.
	deliverMu sync.Mutex
}

// New returns a view in the Annual state. Zero options take the defaults.
func New(data *DataContext, opts Options) *View {
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &View{
		data:    data,
		opts:    opts,
		log:     log.ForService("view"),
		current: dataset.Annual,
	}
}

// Current returns the selected granularity.
func (v *View) Current() dataset.Granularity {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Select switches to g and returns the freshly built result.
func (v *View) Select(g dataset.Granularity) Result {
	v.Begin(g)
	return Render(v.data, g)
}

// Begin records g as the current selection and returns the generation that
// identifies it. Deliveries for older generations are dropped.
func (v *View) Begin(g dataset.Granularity) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = g
	v.generation++
	return v.generation
}

func (v *View) superseded(gen uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generation != gen
}

// Show selects g and delivers the result to s.
func (v *View) Show(ctx context.Context, s Surface, g dataset.Granularity) error {
	return v.Deliver(ctx, s, g, v.Begin(g))
}

// Deliver sends the result for g to s on behalf of the selection gen.
// Placeholders are delivered at once. Charts wait for s to become ready,
// checking every RetryInterval for at most MaxAttempts checks. Once a newer
// selection has begun, gen is never delivered, so the surface always ends up
// showing the latest selection.
func (v *View) Deliver(ctx context.Context, s Surface, g dataset.Granularity, gen uint64) error {
	res := Render(v.data, g)

	if res.HasChart() {
		if err := v.waitReady(ctx, s, gen); err != nil {
			return err
		}
	}

	v.deliverMu.Lock()
	defer v.deliverMu.Unlock()
	if v.superseded(gen) {
		return ErrSuperseded
	}

	if !res.HasChart() {
		v.log.Infof("no %s data, showing placeholder", g.Slug())
		return s.Notice(g, res.Placeholder)
	}
	if err := s.Draw(chart.ContainerID, res.Spec); err != nil {
		return fmt.Errorf("drawing %s chart: %w", g.Slug(), err)
	}
	v.log.Debugf("drew %s chart with %d points", g.Slug(), len(res.Spec.XAxis.Categories))
	return nil
}

func (v *View) waitReady(ctx context.Context, s Surface, gen uint64) error {
	ready := s.Ready()
	select {
	case <-ready:
		return nil
	default:
	}

	ticker := time.NewTicker(v.opts.RetryInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ready:
			return nil
		case <-ticker.C:
		}
		if v.superseded(gen) {
			return ErrSuperseded
		}
		if attempt >= v.opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts", ErrSurfaceNotReady, attempt)
		}
	}
}
