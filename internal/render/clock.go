package render

import "time"

// clockBase is the first of the twelve half-hour clock face glyphs
// (U+1F55C..U+1F567) used as the animation wheel.
const clockBase = '\U0001F55C'

// clockPhases is the number of glyphs in the animation wheel.
const clockPhases = 12

// Time renders an estimated total duration while in progress and the actual
// elapsed time on completion, preceded by a clock glyph that advances with
// the percentage.
//
// The estimate is elapsed * max / current; while current is zero no estimate
// exists and zero is shown.
type Time struct {
	Width int
}

// NewTime returns the time field with its default body width.
func NewTime() *Time {
	return &Time{Width: 11}
}

// Kind returns KindTime.
func (t *Time) Kind() Kind { return KindTime }

// Display renders the animated clock and the estimated total duration.
func (t *Time) Display(m Metrics) string {
	var estimate time.Duration
	if m.Current > 0 {
		estimate = time.Duration(float64(m.Elapsed) * m.Max / m.Current)
	}

	idx := int(m.Percent / 100 * clockPhases)
	body := clockGlyph(idx) + " " + formatClock(estimate)
	return pad(body, t.Width) + " estimated"
}

// Done renders the resting clock and the actual elapsed time.
func (t *Time) Done(m Metrics) string {
	return clockGlyph(0) + " " + formatClock(m.Elapsed) + " total"
}

// clockGlyph returns the clock face for a wheel index, clamped to the
// available glyphs.
func clockGlyph(idx int) string {
	if idx < 0 {
		idx = 0
	}
	if idx >= clockPhases {
		idx = clockPhases - 1
	}
	return string(rune(clockBase + idx))
}
