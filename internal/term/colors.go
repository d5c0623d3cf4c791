package term

import "github.com/charmbracelet/lipgloss"

// Color is a symbolic color name accepted by Console.Format.
type Color string

// Palette names. Default renders in the terminal's default foreground.
const (
	Black   Color = "black"
	Red     Color = "red"
	Green   Color = "green"
	Yellow  Color = "yellow"
	Blue    Color = "blue"
	Magenta Color = "magenta"
	Cyan    Color = "cyan"
	White   Color = "white"
	Default Color = "default"

	// Random is a sentinel accepted by Format that picks a palette color.
	Random Color = "random"
)

// palette maps symbolic names to ANSI color codes for broad terminal
// compatibility.
var palette = map[Color]lipgloss.Color{
	Black:   "0",
	Red:     "1",
	Green:   "2",
	Yellow:  "3",
	Blue:    "4",
	Magenta: "5",
	Cyan:    "6",
	White:   "7",
	Default: "7",
}

// colorNames is the stable enumeration order for ColorNames and Random.
var colorNames = []Color{Black, Red, Green, Yellow, Blue, Magenta, Cyan, White, Default}

// ColorNames returns the palette names accepted by Format, excluding the
// Random sentinel.
func ColorNames() []Color {
	out := make([]Color, len(colorNames))
	copy(out, colorNames)
	return out
}
