package task

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/geom"
	"github.com/gogpu/rawtile/ops"
)

// Host runs area tasks on several goroutines and supplies them with scratch
// memory and the PixelOps implementation.
//
// Tasks must not call PerformAreaTask on the host that is running them.
type Host struct {
	maxThreads int
	ops        ops.PixelOps
	alloc      Allocator
	metrics    *Metrics
	pool       *workerPool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithMaxThreads limits the number of concurrent bands. Non-positive values
// use GOMAXPROCS.
func WithMaxThreads(n int) HostOption {
	return func(h *Host) {
		if n > 0 {
			h.maxThreads = n
		}
	}
}

// WithOps sets the PixelOps handed to tasks implementing OpsUser.
func WithOps(o ops.PixelOps) HostOption {
	return func(h *Host) {
		h.ops = o
	}
}

// WithAllocator sets the scratch allocator.
func WithAllocator(a Allocator) HostOption {
	return func(h *Host) {
		h.alloc = a
	}
}

// WithMetrics records task activity in m.
func WithMetrics(m *Metrics) HostOption {
	return func(h *Host) {
		h.metrics = m
	}
}

// NewHost returns a Host with a started worker pool. By default it uses
// GOMAXPROCS threads, ops.Select and a PoolAllocator.
func NewHost(opts ...HostOption) *Host {
	h := &Host{maxThreads: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(h)
	}
	if h.ops == nil {
		h.ops = ops.Select()
	}
	if h.alloc == nil {
		h.alloc = NewPoolAllocator(nil)
	}
	h.pool = newWorkerPool(h.maxThreads)
	return h
}

// MaxThreads returns the thread limit.
func (h *Host) MaxThreads() int { return h.maxThreads }

// Ops returns the PixelOps handed to tasks.
func (h *Host) Ops() ops.PixelOps { return h.ops }

// Allocator returns the scratch allocator.
func (h *Host) Allocator() Allocator { return h.alloc }

// Close stops the worker pool. PerformAreaTask keeps working afterwards on
// the calling goroutine.
func (h *Host) Close() { h.pool.close() }

// ThreadCount returns the number of bands PerformAreaTask uses for t over
// area.
func (h *Host) ThreadCount(t AreaTask, area geom.Rect) int {
	n := min(h.maxThreads, t.MaxThreads())
	per := max(t.MinTaskArea(), 1)
	return max(1, min(n, int(area.Pixels()/per)))
}

// Bands cuts area into at most n horizontal bands of nearly equal height.
// Every band but the last has a height that is a multiple of cellV.
func Bands(area geom.Rect, n int, cellV int32) []geom.Rect {
	if area.IsEmpty() {
		return nil
	}
	cellV = max(cellV, 1)
	cells := int64(geom.CeilDiv(area.H(), cellV))
	n = int(max(1, min(int64(n), cells)))

	bands := make([]geom.Rect, 0, n)
	top := area.T
	for i := range n {
		bottom := area.B
		if i < n-1 {
			bottom = area.T + int32(cells*int64(i+1)/int64(n))*cellV
		}
		bands = append(bands, geom.R(top, area.L, bottom, area.R))
		top = bottom
	}
	return bands
}

// hostSniffer aborts all bands of a run when ctx is canceled and counts
// leaf tiles.
type hostSniffer struct {
	ContextSniffer
	metrics *Metrics
	outer   Sniffer
}

func (s *hostSniffer) SniffForAbort() error {
	s.metrics.tile()
	if s.outer != nil {
		if err := s.outer.SniffForAbort(); err != nil {
			return err
		}
	}
	return s.ContextSniffer.SniffForAbort()
}

func (s *hostSniffer) UpdateProgress(fraction float64) {
	if s.outer != nil {
		s.outer.UpdateProgress(fraction)
	}
}

// PerformAreaTask runs t over area. The area is cut into ThreadCount
// horizontal bands aligned to the task's unit cell, t is started once,
// every band is processed by ProcessOnThread on the worker pool, and t is
// finished once. The first band error cancels the other bands and is
// returned.
func (h *Host) PerformAreaTask(ctx context.Context, t AreaTask, area geom.Rect, opts ...PerformOption) error {
	if area.IsEmpty() {
		return nil
	}
	var po performOptions
	for _, opt := range opts {
		opt(&po)
	}

	log := rawtile.Logger().With("run", uuid.New().String())
	began := time.Now()

	bands := Bands(area, h.ThreadCount(t, area), t.UnitCell().V)
	threads := len(bands)
	tileSize := FindTileSize(t, area)
	if u, ok := t.(OpsUser); ok {
		u.SetOps(h.ops)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	sniffer := &hostSniffer{
		ContextSniffer: ContextSniffer{ctx: ctx},
		metrics:        h.metrics,
		outer:          po.sniffer,
	}

	log.Info("task: start",
		"task", taskName(t),
		"area", area.String(),
		"pixels", humanize.Comma(area.Pixels()),
		"threads", threads,
		"tile", tileSize)

	err := t.Start(threads, tileSize, h.alloc, sniffer)
	if err == nil {
		err = h.runBands(t, bands, tileSize, sniffer, cancel)
		if ferr := t.Finish(threads); err == nil {
			err = ferr
		}
	}

	elapsed := time.Since(began)
	h.metrics.observe(threads, elapsed, err)
	if err != nil {
		log.Info("task: failed", "elapsed", elapsed, "err", err)
		return err
	}
	log.Info("task: done", "elapsed", elapsed)
	return nil
}

func (h *Host) runBands(t AreaTask, bands []geom.Rect, tileSize geom.Point, sniffer *hostSniffer, cancel context.CancelCauseFunc) error {
	errs := make([]error, len(bands))
	var finished atomic.Int32
	jobs := make([]func(), len(bands))
	for i, band := range bands {
		jobs[i] = func() {
			if err := ProcessOnThread(t, i, band, tileSize, sniffer); err != nil {
				errs[i] = err
				cancel(err)
				return
			}
			sniffer.UpdateProgress(float64(finished.Add(1)) / float64(len(bands)))
		}
	}
	if len(jobs) == 1 {
		jobs[0]()
	} else {
		h.pool.run(jobs)
	}
	return firstCause(errs)
}

// firstCause prefers a band's own failure over the aborts it triggered in
// the other bands.
func firstCause(errs []error) error {
	var aborted error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, rawtile.ErrAborted):
			if aborted == nil {
				aborted = err
			}
		default:
			return err
		}
	}
	return aborted
}

func taskName(t AreaTask) string {
	if n, ok := t.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "area"
}

// PerformOption configures a single PerformAreaTask call.
type PerformOption func(*performOptions)

type performOptions struct {
	sniffer Sniffer
}

// WithSniffer forwards abort polls and progress to s in addition to the
// context.
func WithSniffer(s Sniffer) PerformOption {
	return func(o *performOptions) {
		o.sniffer = s
	}
}
