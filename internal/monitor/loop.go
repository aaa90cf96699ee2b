package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	hberrors "github.com/barnwall/hbmon/internal/errors"
	"github.com/barnwall/hbmon/internal/logger"
	"github.com/barnwall/hbmon/internal/receiver"
	"github.com/barnwall/hbmon/internal/telemetry"
)

// Defaults for Options fields left at zero.
const (
	DefaultInterval   = time.Second
	DefaultMaxDrain   = 512
	DefaultStaleAfter = 3 * time.Second
)

// Phase is where the loop is inside a cycle.
type Phase int

const (
	PhaseDraining Phase = iota
	PhaseRendering
	PhaseIdle
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDraining:
		return "draining"
	case PhaseRendering:
		return "rendering"
	case PhaseIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Source yields queued datagrams without blocking. It returns
// receiver.ErrWouldBlock when nothing is pending.
type Source interface {
	TryReceive() (receiver.Datagram, error)
}

// Options configures a Loop.
type Options struct {
	Interval    time.Duration
	MaxDrain    int
	StaleAfter  time.Duration
	Port        int
	Interactive bool
	// Now is the clock used for staleness, and for ingestion when a datagram
	// carries no receive time. Defaults to time.Now.
	Now func() time.Time
}

// Stats are running totals since the loop started.
type Stats struct {
	Accepted   uint64
	Rejected   uint64
	ReadErrors uint64
}

// DrainStats describes a single drain phase.
type DrainStats struct {
	Read     int
	Accepted int
	Rejected int
	// Capped is true when the drain stopped at MaxDrain with data possibly
	// still queued.
	Capped bool
	// ReadErr is the read error that ended the drain, if any.
	ReadErr error
	// LastReject is the most recent dropped datagram, as an ErrDecode error.
	LastReject error
}

// Loop owns the Store and is its only reader and writer.
type Loop struct {
	source Source
	store  *telemetry.Store
	screen Screen
	opts   Options
	log    logger.Logger

	phase      Phase
	stats      Stats
	lastReject error
}

// NewLoop builds a loop. A nil log discards output.
func NewLoop(source Source, store *telemetry.Store, screen Screen, opts Options, log logger.Logger) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.MaxDrain <= 0 {
		opts.MaxDrain = DefaultMaxDrain
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.Noop()
	}

	return &Loop{
		source: source,
		store:  store,
		screen: screen,
		opts:   opts,
		log:    log,
		phase:  PhaseDraining,
	}
}

// Phase returns the current phase.
func (l *Loop) Phase() Phase {
	return l.phase
}

// Stats returns the running totals.
func (l *Loop) Stats() Stats {
	return l.stats
}

// Drain ingests queued datagrams until the source would block, a read
// fails, or MaxDrain datagrams have been read. Rejected datagrams are
// logged and dropped.
func (l *Loop) Drain() DrainStats {
	l.phase = PhaseDraining

	var ds DrainStats
	for ds.Read < l.opts.MaxDrain {
		d, err := l.source.TryReceive()
		if errors.Is(err, receiver.ErrWouldBlock) {
			return ds
		}
		if err != nil {
			l.stats.ReadErrors++
			ds.ReadErr = err
			l.log.Warn("receive failed, ending drain: %v", err)
			return ds
		}
		ds.Read++

		at := d.ReceivedAt
		if at.IsZero() {
			at = l.opts.Now()
		}
		id, err := l.store.Ingest(d.Payload, at)
		if err != nil {
			ds.Rejected++
			l.stats.Rejected++
			ds.LastReject = hberrors.WrapWithCode(err, hberrors.ErrDecode,
				fmt.Sprintf("Dropped %d-byte datagram from %v", len(d.Payload), d.From), "")
			l.log.Debug("dropped datagram from %v (%d bytes): %v", d.From, len(d.Payload), err)
			continue
		}
		ds.Accepted++
		l.stats.Accepted++
		l.log.Debug("heartbeat from %s", id)
	}

	ds.Capped = true
	l.log.Debug("drain stopped at cap of %d datagrams", l.opts.MaxDrain)
	return ds
}

// Frame renders the current store contents.
func (l *Loop) Frame() string {
	return Render(l.store.Snapshot(), l.opts.Now(), RenderOptions{
		Port:        l.opts.Port,
		StaleAfter:  l.opts.StaleAfter,
		Stats:       l.stats,
		Interactive: l.opts.Interactive,
		LastReject:  l.lastReject,
	})
}

// Cycle runs one drain and one render, leaving the loop idle.
func (l *Loop) Cycle() error {
	if ds := l.Drain(); ds.LastReject != nil {
		l.lastReject = ds.LastReject
	}

	l.phase = PhaseRendering
	if err := l.screen.Draw(l.Frame()); err != nil {
		return hberrors.WrapWithCode(err, hberrors.ErrRender,
			"Can't draw the dashboard",
			"Check that the output stream is still open.")
	}

	l.phase = PhaseIdle
	return nil
}

// Run cycles once per interval until ctx is cancelled. A failed draw is
// logged and the next cycle tries again. Cancellation is a normal exit and
// returns nil.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.opts.Interval)
	defer ticker.Stop()

	l.log.Info("monitor started (interval %s, max drain %d)", l.opts.Interval, l.opts.MaxDrain)
	defer func() {
		l.log.Info("monitor stopped: %d accepted, %d rejected, %d read errors",
			l.stats.Accepted, l.stats.Rejected, l.stats.ReadErrors)
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := l.Cycle(); err != nil {
			l.log.Error("%v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
