package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindLoading, "loading"},
		{KindAwaiting, "awaiting"},
		{KindBar, "bar"},
		{KindPercent, "percent"},
		{KindTime, "time"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab ", pad("ab", 3))
	assert.Equal(t, "abc", pad("abc", 3))
	assert.Equal(t, "abcd", pad("abcd", 3))
	assert.Equal(t, "   ", pad("", 3))
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{5 * time.Second, "00:00:05"},
		{90 * time.Second, "00:01:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{25 * time.Hour, "25:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatClock(tt.d))
		})
	}
}

func TestBarDisplay(t *testing.T) {
	b := NewBar()
	assert.Equal(t, KindBar, b.Kind())

	tests := []struct {
		name    string
		percent float64
		filled  int
	}{
		{"empty", 0, 0},
		{"half", 50, 15},
		{"almost", 99, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Display(Metrics{Percent: tt.percent})
			want := "[" + strings.Repeat("=", tt.filled) + ">" +
				strings.Repeat(" ", 30-tt.filled-1) + "]"
			assert.Equal(t, want, got)
		})
	}
}

func TestBarDisplayFullDoesNotPanic(t *testing.T) {
	b := NewBar()
	got := b.Display(Metrics{Percent: 100})
	assert.Equal(t, "["+strings.Repeat("=", 30)+">]", got)
}

func TestBarDone(t *testing.T) {
	b := NewBar()
	assert.Equal(t, "["+strings.Repeat("=", 30)+"]", b.Done(Metrics{}))
}

func TestBarCustomWidth(t *testing.T) {
	b := &Bar{Width: 10, Fill: '=', Arrow: '>'}
	assert.Equal(t, "[=====>    ]", b.Display(Metrics{Percent: 50}))
	assert.Equal(t, "[==========]", b.Done(Metrics{}))
}

func TestPercentDisplay(t *testing.T) {
	p := NewPercent()
	assert.Equal(t, KindPercent, p.Kind())

	tests := []struct {
		percent float64
		want    string
	}{
		{0, "000.00%"},
		{7.5, "007.50%"},
		{42.25, "042.25%"},
		{99.999, "100.00%"},
		{100, "100.00%"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Display(Metrics{Percent: tt.percent}))
		})
	}
}

func TestPercentDone(t *testing.T) {
	p := NewPercent()
	assert.Equal(t, "100.00%", p.Done(Metrics{Percent: 12.5}))
}

func TestTimeDisplayNoProgress(t *testing.T) {
	tm := NewTime()
	assert.Equal(t, KindTime, tm.Kind())

	got := tm.Display(Metrics{Current: 0, Max: 100, Percent: 0, Elapsed: 5 * time.Second})
	assert.Equal(t, clockGlyph(0)+" 00:00:00  estimated", got)
}

func TestTimeDisplayEstimate(t *testing.T) {
	tm := NewTime()

	// Half done after 2 seconds: estimated total is 4 seconds.
	got := tm.Display(Metrics{Current: 50, Max: 100, Percent: 50, Elapsed: 2 * time.Second})
	assert.Contains(t, got, "00:00:04")
	assert.Contains(t, got, "estimated")
	assert.Contains(t, got, clockGlyph(6))
}

func TestTimeDone(t *testing.T) {
	tm := NewTime()
	got := tm.Done(Metrics{Elapsed: 3 * time.Second})
	assert.Equal(t, clockGlyph(0)+" 00:00:03 total", got)
}

func TestClockGlyphClamped(t *testing.T) {
	assert.Equal(t, clockGlyph(0), clockGlyph(-1))
	assert.Equal(t, clockGlyph(clockPhases-1), clockGlyph(clockPhases))
	assert.NotEqual(t, clockGlyph(0), clockGlyph(6))
}

func TestLoadingDisplayCyclesWithTicks(t *testing.T) {
	l := NewLoading()
	assert.Equal(t, KindLoading, l.Kind())

	tests := []struct {
		ticks int
		want  string
	}{
		{0, "[.  ]"},
		{1, "[.. ]"},
		{2, "[...]"},
		{3, "[.  ]"},
		{7, "[.. ]"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Display(Metrics{Ticks: tt.ticks}))
	}
}

func TestLoadingDone(t *testing.T) {
	l := NewLoading()
	assert.Equal(t, "[...]", l.Done(Metrics{}))
}

func TestAwaitingDisplay(t *testing.T) {
	a := NewAwaiting()
	assert.Equal(t, KindAwaiting, a.Kind())

	assert.Equal(t, "Awaiting.  ", a.Display(Metrics{Ticks: 0}))
	assert.Equal(t, "Awaiting.. ", a.Display(Metrics{Ticks: 1}))
	assert.Equal(t, "Awaiting...", a.Display(Metrics{Ticks: 2}))
}

func TestAwaitingDone(t *testing.T) {
	a := NewAwaiting()
	assert.Equal(t, "Awaiting... Done!", a.Done(Metrics{}))
}
