package canopy

import (
	"fmt"
	"log/slog"
)

// globalDebug mirrors the debug flag of the most recent System to set it so
// that element operations, which have no System pointer, can check it cheaply.
// It is process-wide: every System shares it.
var globalDebug bool

// debugLogger is the logger of the System that last enabled debug mode.
var debugLogger *slog.Logger

func setGlobalDebug(enabled bool, l *slog.Logger) {
	globalDebug = enabled
	if enabled {
		debugLogger = l
	}
}

func debugLog() *slog.Logger {
	if debugLogger != nil {
		return debugLogger
	}
	return Logger()
}

// debugCheckDisposed panics with a descriptive message when a disposed element
// is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(e *Element, op string) {
	if e.disposed {
		panic(fmt.Sprintf("canopy debug: %s on disposed element %q (ID was %d)", op, e.Name, e.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e *Element) {
	depth := 0
	for p := e; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLog().Warn("canopy: deep element tree",
			slog.String("element", e.Name),
			slog.Int("depth", depth),
			slog.Int("threshold", debugMaxTreeDepth))
	}
}

// debugCheckChildCount warns if an element has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Element) {
	if len(e.children) > debugMaxChildCount {
		debugLog().Warn("canopy: large child list",
			slog.String("element", e.Name),
			slog.Int("children", len(e.children)),
			slog.Int("threshold", debugMaxChildCount))
	}
}
