package monitor

import (
	"strings"
	"testing"
	"time"

	"github.com/barnwall/hbmon/internal/receiver"
	"github.com/charmbracelet/x/ansi"
)

const leftHeartbeat = `{"id":"LEFT","ip":"10.0.0.5","uptime_ms":1200,"link":true,"rx_frames":500,"complete":498,"applied":498,"dropped_frames":2}`

// fakeSource replays queued payloads, then returns err (or would-block).
type fakeSource struct {
	queue []receiver.Datagram
	err   error
	reads int
}

func (f *fakeSource) push(payloads ...string) {
	for _, p := range payloads {
		f.queue = append(f.queue, receiver.Datagram{Payload: []byte(p)})
	}
}

func (f *fakeSource) TryReceive() (receiver.Datagram, error) {
	f.reads++
	if len(f.queue) > 0 {
		d := f.queue[0]
		f.queue = f.queue[1:]
		return d, nil
	}
	if f.err != nil {
		return receiver.Datagram{}, f.err
	}
	return receiver.Datagram{}, receiver.ErrWouldBlock
}

// recordingScreen keeps every frame and calls onFrame after each draw
// attempt, failed or not.
type recordingScreen struct {
	frames   []string
	attempts int
	err      error
	onFrame  func()
}

func (s *recordingScreen) Draw(frame string) error {
	s.attempts++
	if s.err == nil {
		s.frames = append(s.frames, frame)
	}
	if s.onFrame != nil {
		s.onFrame()
	}
	return s.err
}

// fakeClock is a settable clock for Options.Now.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// rowFor returns the whitespace-separated cells of the table row for id.
func rowFor(t *testing.T, frame, id string) []string {
	t.Helper()
	for _, line := range strings.Split(ansi.Strip(frame), "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == id {
			return fields
		}
	}
	t.Fatalf("no row for %s in frame:\n%s", id, ansi.Strip(frame))
	return nil
}

func placeholderRow(id string) []string {
	row := []string{id}
	for range Columns[1:] {
		row = append(row, Placeholder)
	}
	return row
}
