package render

import "strings"

// Bar renders a bracketed progress bar with an advancing arrow head:
//
//	[=============>                ]
//
// The filled length is floor(percent/100 * Width). Done renders the bar
// fully filled with no arrow.
type Bar struct {
	Width int
	Fill  rune
	Arrow rune
}

// NewBar returns a bar with the default 30-character width.
func NewBar() *Bar {
	return &Bar{Width: 30, Fill: '=', Arrow: '>'}
}

// Kind returns KindBar.
func (b *Bar) Kind() Kind { return KindBar }

// Display renders the in-progress bar.
func (b *Bar) Display(m Metrics) string {
	filled := int(m.Percent / 100 * float64(b.Width))
	rest := b.Width - filled - 1
	if rest < 0 {
		rest = 0
	}

	var sb strings.Builder
	sb.Grow(b.Width + 2)
	sb.WriteByte('[')
	for i := 0; i < filled; i++ {
		sb.WriteRune(b.Fill)
	}
	sb.WriteRune(b.Arrow)
	for i := 0; i < rest; i++ {
		sb.WriteByte(' ')
	}
	sb.WriteByte(']')
	return sb.String()
}

// Done renders the completed bar.
func (b *Bar) Done(_ Metrics) string {
	return "[" + strings.Repeat(string(b.Fill), b.Width) + "]"
}
