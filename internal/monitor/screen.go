package monitor

import (
	"io"

	"github.com/muesli/termenv"
)

// Screen receives one finished frame per cycle.
type Screen interface {
	Draw(frame string) error
}

// ANSIScreen redraws by clearing the terminal and homing the cursor before
// each frame. Used when stdout is not a TTY the program can own.
type ANSIScreen struct {
	out *termenv.Output
}

// NewANSIScreen writes frames to w.
func NewANSIScreen(w io.Writer) *ANSIScreen {
	return &ANSIScreen{out: termenv.NewOutput(w)}
}

// Draw clears the screen and writes frame.
func (s *ANSIScreen) Draw(frame string) error {
	s.out.ClearScreen()
	_, err := io.WriteString(s.out, frame+"\n")
	return err
}
