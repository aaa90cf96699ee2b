package monitor

// Key bindings as constants for consistency.
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
)

// isQuitKey reports whether a key string ends the dashboard.
func isQuitKey(key string) bool {
	return key == KeyQuit || key == KeyQuitAlt
}
