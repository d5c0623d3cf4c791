package render

import "fmt"

// Percent renders the completion percentage in a constant-width numeric
// field, zero-padded on the left: "000.42%" .. "100.00%".
type Percent struct{}

// NewPercent returns the percent field.
func NewPercent() *Percent { return &Percent{} }

// Kind returns KindPercent.
func (p *Percent) Kind() Kind { return KindPercent }

// Display renders the current percentage.
func (p *Percent) Display(m Metrics) string {
	return fmt.Sprintf("%06.2f%%", m.Percent)
}

// Done always renders exactly 100%.
func (p *Percent) Done(_ Metrics) string {
	return "100.00%"
}
