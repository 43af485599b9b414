package game

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultFPS is the frame rate of a FrameDriver when none is configured
const DefaultFPS = 60

// EventSource is the window side of the main loop
type EventSource interface {
	PollEvents()
	ShouldClose() bool
}

type frameRequest struct {
	id uint64
	fn func(dt time.Duration)
}

// FrameDriver is a Scheduler backed by a fixed-rate ticker. Run must be
// called on the thread that owns the window; callbacks run on that thread.
type FrameDriver struct {
	events EventSource
	period time.Duration
	log    *zap.Logger

	next    uint64
	pending []frameRequest
	running []frameRequest
	last    time.Time
}

// NewFrameDriver creates a driver polling events at fps frames per second
func NewFrameDriver(events EventSource, fps int, log *zap.Logger) *FrameDriver {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FrameDriver{
		events: events,
		period: time.Second / time.Duration(fps),
		log:    log,
	}
}

// RequestFrame schedules fn for the next frame
func (d *FrameDriver) RequestFrame(fn func(dt time.Duration)) uint64 {
	d.next++
	d.pending = append(d.pending, frameRequest{id: d.next, fn: fn})
	return d.next
}

// CancelFrame unschedules a pending callback
func (d *FrameDriver) CancelFrame(id uint64) {
	for i, r := range d.pending {
		if r.id == id {
			d.pending = append(d.pending[:i], d.pending[i+1:]...)
			return
		}
	}
	for i := range d.running {
		if d.running[i].id == id {
			d.running[i].fn = nil
		}
	}
}

// Pending returns the number of scheduled callbacks
func (d *FrameDriver) Pending() int {
	return len(d.pending)
}

// Step polls events and runs the callbacks scheduled before now.
// Callbacks requested during the step run on the next one.
func (d *FrameDriver) Step(now time.Time) {
	d.events.PollEvents()

	dt := d.period
	if !d.last.IsZero() {
		dt = now.Sub(d.last)
	}
	d.last = now

	d.running, d.pending = d.pending, nil
	for i := range d.running {
		if fn := d.running[i].fn; fn != nil {
			fn(dt)
		}
	}
	d.running = nil
}

// Run steps frames until ctx is done or the window asks to close
func (d *FrameDriver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	d.log.Info("frame loop started", zap.Duration("period", d.period))
	for {
		select {
		case <-ctx.Done():
			d.log.Info("frame loop stopped", zap.Error(ctx.Err()))
			return nil
		case now := <-ticker.C:
			d.Step(now)
			if d.events.ShouldClose() {
				d.log.Info("window closed")
				return nil
			}
		}
	}
}
