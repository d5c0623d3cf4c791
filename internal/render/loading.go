package render

import "strings"

// Loading renders a three-phase dot animation inside a fixed-width
// bracketed field: "[.  ]", "[.. ]", "[...]". The phase is selected by
// Metrics.Ticks, so consecutive updates advance the animation.
type Loading struct {
	Width int
	Char  rune
}

// NewLoading returns the loading field with the default dot animation.
func NewLoading() *Loading {
	return &Loading{Width: 3, Char: '.'}
}

// Kind returns KindLoading.
func (l *Loading) Kind() Kind { return KindLoading }

// Display renders the current animation phase, space-padded to a constant
// width.
func (l *Loading) Display(m Metrics) string {
	dots := strings.Repeat(string(l.Char), m.Ticks%l.Width+1)
	return "[" + pad(dots, l.Width) + "]"
}

// Done renders the field fully filled.
func (l *Loading) Done(_ Metrics) string {
	return "[" + strings.Repeat(string(l.Char), l.Width) + "]"
}

// Awaiting is the idle spinner shown before the first explicit progress
// update. It reuses the Loading animation by delegation, drops the
// delimiters and prefixes the literal word "Awaiting". It is driven only by
// the session's idle animator and never joins a session's state list.
type Awaiting struct {
	inner *Loading
}

// NewAwaiting returns the idle spinner.
func NewAwaiting() *Awaiting {
	return &Awaiting{inner: NewLoading()}
}

// Kind returns KindAwaiting.
func (a *Awaiting) Kind() Kind { return KindAwaiting }

// Display renders the idle animation frame.
func (a *Awaiting) Display(m Metrics) string {
	return "Awaiting" + strings.Trim(a.inner.Display(m), "[]")
}

// Done renders the final idle frame.
func (a *Awaiting) Done(m Metrics) string {
	return "Awaiting" + strings.Trim(a.inner.Done(m), "[]") + " Done!"
}
