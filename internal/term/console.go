// Package term owns the physical terminal surface for a progress session.
//
// The Console is the single mutual-exclusion point for everything that
// touches the live line: explicit progress updates, the idle animator, and
// the capture relay all write through it, and it remembers the last rendered
// line so interleaved log output can be printed above it and the live line
// redrawn afterwards.
package term

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	xterm "golang.org/x/term"

	"github.com/mvilar/liveline/internal/errors"
)

const (
	titleDot     = "●"
	titlePointer = "»"
	crossMark    = "❌"
)

// Console writes titled lines to a terminal and supports replacing the last
// printed line in place. Exactly one session should own a Console at a time.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	title    string
	lastLine string

	colors    bool
	colorsSet bool
	live      bool
	liveSet   bool
	unicodeOK bool
}

// Option configures a Console.
type Option func(*Console)

// WithOutput directs console writes to w instead of os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Console) { c.out = w }
}

// WithColors forces color output on or off, skipping terminal detection.
func WithColors(enabled bool) Option {
	return func(c *Console) { c.colors = enabled; c.colorsSet = true }
}

// WithLive forces live redraw (carriage-return rewriting) on or off,
// skipping terminal detection. Useful for exercising the redraw path
// against an in-memory writer.
func WithLive(enabled bool) Option {
	return func(c *Console) { c.live = enabled; c.liveSet = true }
}

// WithUnicode controls astral-plane glyph output. When disabled, runes
// outside the Basic Multilingual Plane are substituted with U+FFFD rather
// than risking a write failure on terminals that cannot render them.
func WithUnicode(enabled bool) Option {
	return func(c *Console) { c.unicodeOK = enabled }
}

// New creates a console with the given title used as the message prefix.
func New(title string, opts ...Option) *Console {
	c := &Console{
		out:       os.Stdout,
		title:     title,
		unicodeOK: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !c.liveSet {
		if f, ok := c.out.(*os.File); ok {
			c.live = xterm.IsTerminal(int(f.Fd()))
		}
	}
	if !c.colorsSet {
		c.colors = c.live && termenv.ColorProfile() != termenv.Ascii
	}
	return c
}

// Title returns the console's message title.
func (c *Console) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// SetTitle replaces the console's message title.
func (c *Console) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = title
}

// LastLine returns the most recently rendered line, styling included.
func (c *Console) LastLine() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastLine
}

// Format styles text with a named palette color. The Random sentinel picks
// a palette color; any other unknown name is an InvalidArgument error.
func (c *Console) Format(s string, color Color) (string, error) {
	if color == Random {
		color = colorNames[rand.IntN(len(colorNames))]
	}
	ansi, ok := palette[color]
	if !ok {
		return "", errors.InvalidArgument("color %q not found", color).
			WithSuggestion("choose one of: black, red, green, yellow, blue, magenta, cyan, white, default")
	}
	if !c.colors {
		return s, nil
	}
	return lipgloss.NewStyle().Foreground(ansi).Render(s), nil
}

// paint is Format for palette colors known at compile time; it never fails.
func (c *Console) paint(s string, color Color) string {
	out, err := c.Format(s, color)
	if err != nil {
		return s
	}
	return out
}

// PrintLine writes msg as a titled line followed by a newline.
func (c *Console) PrintLine(msg string) {
	c.PrintTitled(msg, "")
}

// PrintTitled writes msg as a line with an explicit title prefix.
func (c *Console) PrintTitled(msg, title string) {
	line := c.parse(msg, title)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.write(line + "\n")
	c.lastLine = line
}

// ReplaceLastLine redraws the live line in place. On non-terminal targets
// the line is appended instead.
func (c *Console) ReplaceLastLine(msg string) {
	line := c.parse(msg, "")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceLocked(line)
}

// LogError writes msg as a red error line.
func (c *Console) LogError(msg string) {
	c.PrintTitled(c.paint("Error: "+msg, Red), "")
}

// Relay writes captured output lines above the live line, each as a titled
// entry, then redraws the live line. The whole block is one critical
// section, so a concurrent update cannot interleave with it.
func (c *Console) Relay(tag string, lines []string) {
	parsed := make([]string, 0, len(lines))
	for _, ln := range lines {
		parsed = append(parsed, c.parse(ln, tag))
	}
	c.relayBlock(parsed)
}

// RelayError writes captured error-stream lines above the live line as a
// red error block, then redraws the live line.
func (c *Console) RelayError(tag string, lines []string) {
	parsed := make([]string, 0, len(lines)+1)
	parsed = append(parsed, c.parse(c.paint(crossMark+" Error:", Red), tag))
	for _, ln := range lines {
		parsed = append(parsed, c.paint(ln, Red))
	}
	c.relayBlock(parsed)
}

func (c *Console) relayBlock(lines []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	if c.live && c.lastLine != "" {
		b.WriteString("\r")
		b.WriteString(strings.Repeat(" ", lineWidth(c.lastLine)))
		b.WriteString("\r")
	}
	for _, ln := range lines {
		b.WriteString(ln)
		b.WriteString("\n")
	}
	c.write(b.String())

	if c.lastLine != "" {
		if c.live {
			c.write(c.lastLine)
		} else {
			c.write(c.lastLine + "\n")
		}
	}
}

func (c *Console) replaceLocked(line string) {
	if c.live {
		if c.lastLine != "" {
			c.write("\r" + strings.Repeat(" ", lineWidth(c.lastLine)) + "\r")
		}
		c.write(line)
	} else {
		c.write(line + "\n")
	}
	c.lastLine = line
}

// parse collapses msg to a single line and prepends the title prefix.
func (c *Console) parse(msg, title string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.Join(strings.Split(msg, "\n"), " ")
	return c.prefix(title) + " " + msg
}

func (c *Console) prefix(title string) string {
	if title == "" {
		c.mu.Lock()
		title = c.title
		c.mu.Unlock()
	}
	return fmt.Sprintf("%s %s %s",
		c.paint(titleDot, Red),
		c.paint(title, Blue),
		c.paint(titlePointer, Cyan),
	)
}

// write sends text to the target, substituting non-BMP runes when the
// terminal cannot render them. Write failures are not surfaced here; the
// console is a best-effort sink.
func (c *Console) write(s string) {
	if !c.unicodeOK {
		s = sanitizeBMP(s)
	}
	_, _ = io.WriteString(c.out, s)
}

// sanitizeBMP replaces astral-plane runes with the Unicode replacement
// character.
func sanitizeBMP(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return '�'
		}
		return r
	}, s)
}

// lineWidth returns the printable rune count of a styled line.
func lineWidth(s string) int {
	return len([]rune(stripAnsi(s)))
}

// stripAnsi removes ANSI escape codes from a string for length calculation.
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
