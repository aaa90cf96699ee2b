package ui

// Unicode symbols for device status indicators.
const (
	SymbolFresh   = "●" // Reported within the freshness window
	SymbolStale   = "◐" // Reported before, but not recently
	SymbolUnknown = "○" // Never reported
	SymbolFail    = "✗" // Failure prefix in error output
)
