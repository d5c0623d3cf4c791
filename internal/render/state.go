// Package render provides the pluggable field renderers that compose a live
// progress line. Each state turns the shared progress metrics into one short
// text fragment; the session joins the fragments into the displayed line.
//
// States are stateless: animation phase comes from Metrics.Ticks, so the
// same state value can be shared between sessions.
package render

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies a state variant. A session's state list holds at most one
// state of each kind.
type Kind int

const (
	KindLoading Kind = iota
	KindAwaiting
	KindBar
	KindPercent
	KindTime
)

// String returns the lowercase variant name.
func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindAwaiting:
		return "awaiting"
	case KindBar:
		return "bar"
	case KindPercent:
		return "percent"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Metrics is the shared tuple computed once per update and handed to every
// state. Percent is Current/Max*100 and is not clamped; callers must not
// report Current above Max.
type Metrics struct {
	Current float64
	Max     float64
	Percent float64
	Elapsed time.Duration
	Ticks   int
}

// State renders one field of the progress line.
//
// Display is called on every in-progress update. Done is called once, when
// the session decides the task is complete, and its result is final for that
// session run.
type State interface {
	Kind() Kind
	Display(m Metrics) string
	Done(m Metrics) string
}

// pad right-pads s with spaces to width runes. Strings already at or beyond
// the width are returned unchanged.
func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// formatClock renders a duration as HH:MM:SS.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
