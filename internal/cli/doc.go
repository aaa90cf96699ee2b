// Package cli implements the hbmon command-line interface.
//
// # Command Structure
//
// The root command runs the monitor; two subcommands support it:
//
//	hbmon [--port N]    - Listen for heartbeats and redraw the status table
//	hbmon config        - Print the effective configuration as YAML
//	hbmon version       - Print build information
//
// # Flag Handling
//
// --port is the only flag. It is persistent, so "hbmon config --port 50000"
// shows exactly what "hbmon --port 50000" would run with. An explicit --port
// overrides HBMON_PORT and the config file; an unset one does not. A config
// file outside the search path is selected with HBMON_CONFIG.
//
// # Output Modes
//
// When both stdin and stdout are terminals the dashboard runs full screen
// under Bubble Tea and logs are discarded unless log.file is set. Otherwise
// each frame is written after an ANSI clear and logs go to stderr.
package cli
