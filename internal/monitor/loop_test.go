package monitor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	hberrors "github.com/barnwall/hbmon/internal/errors"
	"github.com/barnwall/hbmon/internal/logger"
	"github.com/barnwall/hbmon/internal/receiver"
	"github.com/barnwall/hbmon/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoop(src *fakeSource, screen Screen, clock *fakeClock, opts Options) (*Loop, *telemetry.Store, *logger.BufferLogger) {
	store := telemetry.NewStore()
	log := logger.NewBufferLogger()
	opts.Now = clock.Now
	if opts.Port == 0 {
		opts.Port = 49700
	}
	return NewLoop(src, store, screen, opts, log), store, log
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "draining", PhaseDraining.String())
	assert.Equal(t, "rendering", PhaseRendering.String())
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestNewLoop_Defaults(t *testing.T) {
	l := NewLoop(&fakeSource{}, telemetry.NewStore(), &recordingScreen{}, Options{}, nil)

	assert.Equal(t, DefaultInterval, l.opts.Interval)
	assert.Equal(t, DefaultMaxDrain, l.opts.MaxDrain)
	assert.Equal(t, DefaultStaleAfter, l.opts.StaleAfter)
	assert.NotNil(t, l.opts.Now)
	assert.Equal(t, PhaseDraining, l.Phase(), "a new loop starts draining")
}

func TestDrain_LastOfManyWins(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < 10; i++ {
		src.push(fmt.Sprintf(`{"id":"LEFT","uptime_ms":%d}`, i))
	}
	l, store, _ := newTestLoop(src, &recordingScreen{}, newFakeClock(), Options{})

	ds := l.Drain()

	assert.Equal(t, 10, ds.Read)
	assert.Equal(t, 10, ds.Accepted)
	assert.False(t, ds.Capped)
	assert.Empty(t, src.queue)

	e, _ := store.Get(telemetry.DeviceLeft)
	require.True(t, e.Seen)
	uptime, _ := e.Record.Text(telemetry.FieldUptime)
	assert.Equal(t, "9", uptime)
}

func TestDrain_StopsAtCap(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < 5; i++ {
		src.push(fmt.Sprintf(`{"id":"RIGHT","uptime_ms":%d}`, i))
	}
	l, store, _ := newTestLoop(src, &recordingScreen{}, newFakeClock(), Options{MaxDrain: 3})

	ds := l.Drain()
	assert.Equal(t, 3, ds.Read)
	assert.True(t, ds.Capped)
	assert.Len(t, src.queue, 2, "the rest waits for the next cycle")

	e, _ := store.Get(telemetry.DeviceRight)
	uptime, _ := e.Record.Text(telemetry.FieldUptime)
	assert.Equal(t, "2", uptime)

	ds = l.Drain()
	assert.Equal(t, 2, ds.Read)
	assert.False(t, ds.Capped)
}

func TestDrain_ReadErrorEndsDrain(t *testing.T) {
	readErr := errors.New("connection refused")
	src := &fakeSource{err: readErr}
	src.push(leftHeartbeat)
	l, store, log := newTestLoop(src, &recordingScreen{}, newFakeClock(), Options{})

	ds := l.Drain()

	assert.Equal(t, 1, ds.Accepted)
	assert.ErrorIs(t, ds.ReadErr, readErr)
	assert.Equal(t, uint64(1), l.Stats().ReadErrors)
	assert.True(t, log.HasLevel("warn"))

	left, _ := store.Get(telemetry.DeviceLeft)
	assert.True(t, left.Seen, "data read before the error is kept")
	ip, _ := left.Record.Text(telemetry.FieldIP)
	assert.Equal(t, "10.0.0.5", ip)
}

func TestDrain_RejectsBadDatagramsWithoutTouchingState(t *testing.T) {
	src := &fakeSource{}
	src.push(
		`{"id":"RIGHT","ip":"10.0.0.6"}`,
		`{"id":"CENTER","ip":"10.0.0.7"}`,
		`not json at all`,
		"\xff\xfe{}",
		`{"ip":"10.0.0.8"}`,
	)
	l, store, log := newTestLoop(src, &recordingScreen{}, newFakeClock(), Options{})

	ds := l.Drain()

	assert.Equal(t, 5, ds.Read)
	assert.Equal(t, 1, ds.Accepted)
	assert.Equal(t, 4, ds.Rejected)
	assert.Equal(t, Stats{Accepted: 1, Rejected: 4}, l.Stats())
	assert.True(t, hberrors.IsCode(ds.LastReject, hberrors.ErrDecode))
	assert.ErrorIs(t, ds.LastReject, telemetry.ErrUnknownDevice, "the last datagram had no id")
	assert.True(t, log.HasLevel("debug"))

	left, _ := store.Get(telemetry.DeviceLeft)
	assert.False(t, left.Seen, "LEFT stays absent")
	assert.Nil(t, left.Record)
	right, _ := store.Get(telemetry.DeviceRight)
	require.True(t, right.Seen)
	ip, _ := right.Record.Text(telemetry.FieldIP)
	assert.Equal(t, "10.0.0.6", ip)
}

func TestCycle_NoDatagrams(t *testing.T) {
	screen := &recordingScreen{}
	l, _, _ := newTestLoop(&fakeSource{}, screen, newFakeClock(), Options{})

	require.NoError(t, l.Cycle())
	require.Len(t, screen.frames, 1)

	frame := screen.frames[0]
	assert.Equal(t, placeholderRow("LEFT"), rowFor(t, frame, "LEFT"))
	assert.Equal(t, placeholderRow("RIGHT"), rowFor(t, frame, "RIGHT"))
	assert.Contains(t, frame, "0/2 reporting")
	assert.Equal(t, PhaseIdle, l.Phase())
}

func TestCycle_LeftReports(t *testing.T) {
	src := &fakeSource{}
	src.push(leftHeartbeat)
	screen := &recordingScreen{}
	clock := newFakeClock()
	l, _, _ := newTestLoop(src, screen, clock, Options{})

	require.NoError(t, l.Cycle())
	assert.Equal(t,
		[]string{"LEFT", "10.0.0.5", "1200", "true", "500", "498", "498", "2", "0.0s"},
		rowFor(t, screen.frames[0], "LEFT"))
	assert.Contains(t, screen.frames[0], "1/2 reporting")

	clock.Advance(1500 * time.Millisecond)
	require.NoError(t, l.Cycle())

	frame := screen.frames[1]
	assert.Equal(t,
		[]string{"LEFT", "10.0.0.5", "1200", "true", "500", "498", "498", "2", "1.5s"},
		rowFor(t, frame, "LEFT"))
	assert.Equal(t, placeholderRow("RIGHT"), rowFor(t, frame, "RIGHT"))
}

func TestCycle_DeviceGoesStale(t *testing.T) {
	src := &fakeSource{}
	src.push(leftHeartbeat)
	screen := &recordingScreen{}
	clock := newFakeClock()
	l, _, _ := newTestLoop(src, screen, clock, Options{StaleAfter: 3 * time.Second})

	require.NoError(t, l.Cycle())
	clock.Advance(10 * time.Second)
	require.NoError(t, l.Cycle())

	assert.Contains(t, screen.frames[1], "0/2 reporting")
	assert.Equal(t, "10.0s", rowFor(t, screen.frames[1], "LEFT")[8])
}

func TestCycle_ShowsLastDroppedDatagram(t *testing.T) {
	src := &fakeSource{}
	src.push(`{"id":"CENTER"}`)
	screen := &recordingScreen{}
	l, _, _ := newTestLoop(src, screen, newFakeClock(), Options{})

	require.NoError(t, l.Cycle())
	require.NoError(t, l.Cycle())

	for _, frame := range screen.frames {
		assert.Contains(t, frame, "last drop: "+telemetry.ErrUnknownDevice.Error())
		assert.Contains(t, frame, "rejected 1")
	}
}

func TestDrain_UsesReceiveTime(t *testing.T) {
	clock := newFakeClock()
	received := clock.Now().Add(-400 * time.Millisecond)
	src := &fakeSource{queue: []receiver.Datagram{{Payload: []byte(leftHeartbeat), ReceivedAt: received}}}
	src.push(`{"id":"RIGHT"}`)
	l, store, _ := newTestLoop(src, &recordingScreen{}, clock, Options{})

	l.Drain()

	left, _ := store.Get(telemetry.DeviceLeft)
	assert.Equal(t, received, left.LastSeen)
	right, _ := store.Get(telemetry.DeviceRight)
	assert.Equal(t, clock.Now(), right.LastSeen, "no receive time falls back to the loop clock")
	assert.Equal(t, "0.4s", rowFor(t, l.Frame(), "LEFT")[8])
}

func TestCycle_DrawErrorIsRenderError(t *testing.T) {
	screen := &recordingScreen{err: errors.New("broken pipe")}
	l, _, _ := newTestLoop(&fakeSource{}, screen, newFakeClock(), Options{})

	err := l.Cycle()
	require.Error(t, err)
	assert.True(t, hberrors.IsCode(err, hberrors.ErrRender))
	assert.Equal(t, PhaseRendering, l.Phase())
}

func TestRun_ReturnsNilOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	screen := &recordingScreen{}
	screen.onFrame = func() {
		if len(screen.frames) == 2 {
			cancel()
		}
	}
	l, _, log := newTestLoop(&fakeSource{}, screen, newFakeClock(), Options{Interval: 10 * time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Len(t, screen.frames, 2, "no frame is drawn after cancellation")
	assert.True(t, log.HasLevel("info"))
}

func TestRun_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	screen := &recordingScreen{}
	l, _, _ := newTestLoop(&fakeSource{}, screen, newFakeClock(), Options{})

	assert.NoError(t, l.Run(ctx))
	assert.Empty(t, screen.frames)
}

func TestRun_KeepsGoingAfterDrawError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	screen := &recordingScreen{err: errors.New("closed")}
	screen.onFrame = func() {
		if screen.attempts == 3 {
			cancel()
		}
	}
	l, _, log := newTestLoop(&fakeSource{}, screen, newFakeClock(), Options{Interval: 10 * time.Millisecond})

	assert.NoError(t, l.Run(ctx))
	assert.Equal(t, 3, screen.attempts)
	assert.True(t, log.HasLevel("error"))
}
