package monitor

import (
	"context"
	"errors"

	hberrors "github.com/barnwall/hbmon/internal/errors"
	tea "github.com/charmbracelet/bubbletea"
)

// frameMsg carries a finished frame from the loop goroutine.
type frameMsg string

// Model is the Bubble Tea model for the dashboard. It only displays frames;
// all state lives in the loop.
type Model struct {
	frame    string
	cancel   context.CancelFunc
	quitting bool
}

// NewModel creates a model that calls cancel when the user quits.
func NewModel(cancel context.CancelFunc) Model {
	return Model{cancel: cancel}
}

// Init has nothing to start; frames arrive from outside.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuitKey(msg.String()) {
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case frameMsg:
		m.frame = string(msg)
	}

	return m, nil
}

// View renders the latest frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.frame == "" {
		return "Waiting for first frame..."
	}
	return m.frame
}

// programScreen hands frames to a running program.
type programScreen struct {
	program *tea.Program
}

// Draw never fails; Send returns once the program has taken the frame or
// has shut down.
func (s programScreen) Draw(frame string) error {
	s.program.Send(frameMsg(frame))
	return nil
}

// RunInteractive runs the loop built by build under a full-screen Bubble Tea
// program. It returns when ctx is cancelled or the user quits.
func RunInteractive(ctx context.Context, build func(Screen) *Loop, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Signals are left to the caller's context.
	programOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()}, opts...)
	p := tea.NewProgram(NewModel(cancel), programOpts...)

	loop := build(programScreen{program: p})
	loopErr := make(chan error, 1)
	go func() {
		err := loop.Run(ctx)
		p.Quit()
		loopErr <- err
	}()

	_, runErr := p.Run()
	cancel()
	err := <-loopErr

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return hberrors.WrapWithCode(runErr, hberrors.ErrRender,
			"Dashboard failed",
			"Redirect output to a file or pipe to use plain mode.")
	}
	return err
}
