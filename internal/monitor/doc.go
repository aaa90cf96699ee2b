// Package monitor implements the heartbeat dashboard for the two wall
// controllers.
//
// # Cycle
//
// A Loop runs one cycle per interval and moves through three phases:
//
//	DRAINING   - pull every queued datagram (up to MaxDrain) into the Store
//	RENDERING  - build one frame from a Store snapshot and hand it to a Screen
//	IDLE       - wait for the next tick or for cancellation
//
// Cancellation is only observed between phases, so a datagram is never half
// ingested and a frame is never half drawn.
//
// # Screens
//
// Two Screen implementations exist:
//
//	ANSIScreen     - clears the terminal with termenv and writes the frame
//	programScreen  - forwards frames to a Bubble Tea alt-screen program
//
// RunInteractive wires a Loop to the Bubble Tea program. The program never
// touches the Store; it only receives finished frames.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
package monitor
