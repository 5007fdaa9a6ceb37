package grove

import (
	"fmt"
	"io"
	"os"
	"time"
)

// frameTimings holds per-frame timing. Only populated in debug mode.
type frameTimings struct {
	cull   time.Duration
	render time.Duration
	draw   time.Duration
}

// debugOut is where debug mode prints. Tests replace it.
var debugOut io.Writer = os.Stderr

// SetDebugMode enables per-frame timing and counter output on stderr plus
// an on-screen counters overlay.
func (w *World) SetDebugMode(enabled bool) {
	w.debug = enabled
	if enabled && w.debugOverlay == nil {
		w.debugOverlay = newDebugOverlay()
	}
}

// DebugMode reports whether debug mode is on.
func (w *World) DebugMode() bool {
	return w.debug
}

// debugLog prints timing and per-layer counters.
func (w *World) debugLog(stats []Stats) {
	if !w.debug {
		return
	}
	t := w.timings
	_, _ = fmt.Fprintf(debugOut,
		"[grove] cull: %v | render: %v | draw: %v | total: %v\n",
		t.cull, t.render, t.draw, t.cull+t.render+t.draw)
	_, _ = fmt.Fprintf(debugOut,
		"[grove] tiles: %d | %s\n", w.rng.Count(), formatStats(stats))
}

// formatStats renders counters as "name total/visible/drawn" pairs.
func formatStats(stats []Stats) string {
	var b []byte
	for i, s := range stats {
		if i > 0 {
			b = append(b, " | "...)
		}
		b = fmt.Appendf(b, "%s %d/%d/%d", s.Layer, s.Total, s.Visible, s.Drawn)
	}
	return string(b)
}
