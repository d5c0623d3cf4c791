// Package progress orchestrates the live progress line: it owns the ordered
// state list, computes the shared metrics on every update, drives the idle
// animator before the first update, and arranges stream capture so logging
// during a session lands above the live line.
package progress

import (
	stderrors "errors"
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mvilar/liveline/internal/capture"
	"github.com/mvilar/liveline/internal/errors"
	"github.com/mvilar/liveline/internal/logger"
	"github.com/mvilar/liveline/internal/render"
	"github.com/mvilar/liveline/internal/term"
)

// DefaultMaxValue is the progress ceiling when none is configured. It is a
// plain quantity, not a percentage, though the default makes them coincide.
const DefaultMaxValue = 100

const (
	doneMark      = "✅"
	fragSeparator = " - "
	idleInterval  = 10 * time.Millisecond
)

// DefaultStates returns the standard field order: bar, percent, time.
func DefaultStates() []render.State {
	return []render.State{render.NewBar(), render.NewPercent(), render.NewTime()}
}

// stateKeys maps the symbolic lookup keys to state kinds.
var stateKeys = map[string]render.Kind{
	"loading": render.KindLoading,
	"time":    render.KindTime,
	"percent": render.KindPercent,
	"bar":     render.KindBar,
}

// Session is one run of a progress-tracked task. It may be started and
// stopped repeatedly; Stop on a non-running session is a no-op.
type Session struct {
	console     *term.Console
	interceptor *capture.Interceptor
	log         logger.Logger

	mu           sync.Mutex
	states       []render.State
	maxValue     float64
	currentValue float64
	ticks        int
	startedAt    time.Time
	running      bool
	animator     *animator

	awaiting    atomic.Bool
	idleTimeout time.Duration
	idleTick    time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithConsole binds the session to an existing console sink.
func WithConsole(c *term.Console) Option {
	return func(s *Session) { s.console = c }
}

// WithInterceptor binds the session to an existing stream interceptor.
func WithInterceptor(i *capture.Interceptor) Option {
	return func(s *Session) { s.interceptor = i }
}

// WithMaxValue sets the initial progress ceiling. Non-positive values are
// ignored and the default is kept.
func WithMaxValue(maxValue float64) Option {
	return func(s *Session) {
		if maxValue > 0 && !math.IsInf(maxValue, 1) {
			s.maxValue = maxValue
		}
	}
}

// WithStates replaces the default state list.
func WithStates(states ...render.State) Option {
	return func(s *Session) {
		if len(states) > 0 {
			s.states = dedupeStates(states)
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithIdleTimeout bounds the idle animator: after d without an explicit
// update it stops on its own. Zero means no bound.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Session) { s.idleTimeout = d }
}

// WithIdleInterval overrides the idle animator frame period.
func WithIdleInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.idleTick = d
		}
	}
}

// New creates a session with the given display name. Unless overridden the
// session writes to os.Stdout, captures both process streams while running,
// and renders the default bar/percent/time fields against a ceiling of 100.
func New(name string, opts ...Option) *Session {
	s := &Session{
		log:      logger.NewEnvLogger("[progress]"),
		maxValue: DefaultMaxValue,
		idleTick: idleInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.console == nil {
		s.console = term.New(name)
	}
	if s.interceptor == nil {
		s.interceptor = capture.New(s.console)
	}
	if s.states == nil {
		s.states = DefaultStates()
	}
	return s
}

// Console returns the session's sink.
func (s *Session) Console() *term.Console { return s.console }

// IsRunning reports whether the session is between Start and Stop.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// IsAwaiting reports whether no explicit update has arrived since Start.
func (s *Session) IsAwaiting() bool { return s.awaiting.Load() }

// MaxValue returns the current progress ceiling.
func (s *Session) MaxValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxValue
}

// CurrentValue returns the last reported progress value.
func (s *Session) CurrentValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentValue
}

// Ticks returns the number of renders performed since the last (re)start.
func (s *Session) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Percent returns value as a percentage of the current ceiling, unclamped.
func (s *Session) Percent(value float64) float64 {
	return value / s.MaxValue() * 100
}

// Start arms the session: stamps the start time, resets counters, activates
// stream capture and spawns the idle animator. Starting a running session
// restarts it.
func (s *Session) Start() {
	if s.IsRunning() {
		s.Stop()
	}

	s.mu.Lock()
	s.running = true
	s.startedAt = time.Now()
	s.ticks = 0
	s.currentValue = 0
	an := newAnimator(s.console, s.idleTick, s.idleTimeout)
	s.animator = an
	s.mu.Unlock()

	s.awaiting.Store(true)
	if err := s.interceptor.Activate(); err != nil {
		s.log.Error("stream capture unavailable: %v", err)
	}
	go an.run()
}

// Stop signals the idle animator and blocks until it has exited, then
// releases the captured streams. Stopping a non-running session is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	an := s.animator
	s.mu.Unlock()

	s.awaiting.Store(false)
	if an != nil {
		an.stop()
	}
	s.interceptor.Deactivate()
}

// Restart stops and re-arms the session, resetting ticks and the current
// value.
func (s *Session) Restart() {
	s.Stop()
	s.Start()
}

// SetMaxValue changes the progress ceiling. A value equal to the current
// ceiling is a no-op; any other positive value restarts the session before
// taking effect, discarding all progress state. Non-positive or non-finite
// values are rejected and leave the session untouched.
func (s *Session) SetMaxValue(maxValue float64) error {
	if math.IsNaN(maxValue) || math.IsInf(maxValue, 0) || maxValue <= 0 {
		return errors.InvalidArgument("max value %v is not a positive number", maxValue)
	}

	s.mu.Lock()
	same := maxValue == s.maxValue
	s.mu.Unlock()
	if same {
		return nil
	}

	s.Restart()

	s.mu.Lock()
	s.maxValue = maxValue
	s.mu.Unlock()
	return nil
}

// Advance reports progress. The optional second argument updates the
// ceiling first (with SetMaxValue semantics). The first Advance after Start
// retires the idle animator before rendering, so no idle frame can land
// after an explicit update.
//
// Completion triggers at one unit before the ceiling: advancing to max-1 or
// beyond renders every state's Done fragment plus a trailing done marker.
// Values above the ceiling are a caller error and overflow the fields.
func (s *Session) Advance(value float64, maxValue ...float64) error {
	if len(maxValue) > 0 {
		if err := s.SetMaxValue(maxValue[0]); err != nil {
			return err
		}
	}

	s.retireIdle()

	s.mu.Lock()
	s.ticks++
	s.currentValue = value
	maxVal := s.maxValue
	started := s.startedAt
	ticks := s.ticks
	states := make([]render.State, len(s.states))
	copy(states, s.states)
	s.mu.Unlock()

	var elapsed time.Duration
	if !started.IsZero() {
		elapsed = time.Since(started)
	}
	m := render.Metrics{
		Current: value,
		Max:     maxVal,
		Percent: value / maxVal * 100,
		Elapsed: elapsed,
		Ticks:   ticks,
	}

	done := value >= maxVal-1
	frags := make([]string, 0, len(states)+1)
	for _, st := range states {
		if done {
			frags = append(frags, st.Done(m))
		} else {
			frags = append(frags, st.Display(m))
		}
	}
	if done {
		frags = append(frags, "Done! "+doneMark)
	}

	s.console.ReplaceLastLine(strings.Join(frags, fragSeparator))
	return nil
}

// retireIdle stops the idle animator on the first explicit update and waits
// for its final frame, so the animator never overwrites a progress line.
func (s *Session) retireIdle() {
	if !s.awaiting.CompareAndSwap(true, false) {
		return
	}
	s.mu.Lock()
	an := s.animator
	s.mu.Unlock()
	if an != nil {
		an.stop()
	}
}

// AddStates appends states whose kind is not already present. Duplicates
// are silently skipped; the awaiting state never joins the list. One
// notification is printed per call that actually adds something.
func (s *Session) AddStates(states ...render.State) {
	s.mu.Lock()
	var added []render.State
	for _, st := range states {
		if st == nil || st.Kind() == render.KindAwaiting {
			continue
		}
		if s.hasKindLocked(st.Kind()) || hasKind(added, st.Kind()) {
			continue
		}
		added = append(added, st)
	}
	s.states = append(s.states, added...)
	s.mu.Unlock()

	if len(added) == 0 {
		return
	}
	names := make([]string, 0, len(added))
	for _, st := range added {
		names = append(names, st.Kind().String())
	}
	s.console.PrintLine(fmt.Sprintf("Added new states! [%s]", strings.Join(names, ", ")))
	s.log.Debug("added states: %s", strings.Join(names, ", "))
}

// Len returns the number of active states.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// StateKinds returns the kinds of the active states in display order.
func (s *Session) StateKinds() []render.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]render.Kind, 0, len(s.states))
	for _, st := range s.states {
		kinds = append(kinds, st.Kind())
	}
	return kinds
}

// StateAt returns the state at a display position.
func (s *Session) StateAt(i int) (render.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.states) {
		return nil, errors.InvalidArgument("state index %d out of range [0, %d)", i, len(s.states))
	}
	return s.states[i], nil
}

// ReplaceStateAt swaps the state at a display position.
func (s *Session) ReplaceStateAt(i int, st render.State) error {
	if st == nil {
		return errors.InvalidArgument("state must not be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.states) {
		return errors.InvalidArgument("state index %d out of range [0, %d)", i, len(s.states))
	}
	s.states[i] = st
	return nil
}

// StateByKey returns the active state for a symbolic key: "loading",
// "time", "percent" or "bar". Unknown keys and keys without an active state
// are InvalidArgument errors.
func (s *Session) StateByKey(key string) (render.State, error) {
	kind, ok := stateKeys[key]
	if !ok {
		return nil, errors.InvalidArgument("unknown state key %q", key).
			WithSuggestion("choose one of: loading, time, percent, bar")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.states {
		if st.Kind() == kind {
			return st, nil
		}
	}
	return nil, errors.InvalidArgument("no active %s state", key)
}

// Run executes fn inside the session: Start before, Stop after, on every
// exit path. A returned error or a panic is reported through the console
// with its origin before the session stops; panics are re-raised. Errors
// matching errors.ErrBenign propagate without being reported.
func (s *Session) Run(fn func(*Session) error) (err error) {
	s.Start()
	defer s.Stop()
	defer func() {
		if r := recover(); r != nil {
			s.console.LogError(fmt.Sprintf("%s: %v", panicSite(), r))
			panic(r)
		}
		if err != nil && !stderrors.Is(err, errors.ErrBenign) {
			s.console.LogError(errorContext(err))
		}
	}()
	err = fn(s)
	return err
}

func (s *Session) hasKindLocked(k render.Kind) bool {
	return hasKind(s.states, k)
}

func hasKind(states []render.State, k render.Kind) bool {
	for _, st := range states {
		if st.Kind() == k {
			return true
		}
	}
	return false
}

func dedupeStates(states []render.State) []render.State {
	out := make([]render.State, 0, len(states))
	for _, st := range states {
		if st == nil || st.Kind() == render.KindAwaiting {
			continue
		}
		if !hasKind(out, st.Kind()) {
			out = append(out, st)
		}
	}
	return out
}

// errorContext prefers the structured error's file:line context.
func errorContext(err error) string {
	var llErr *errors.Error
	if stderrors.As(err, &llErr) {
		return llErr.Context()
	}
	return err.Error()
}

// panicSite locates the first non-runtime frame below the recover point.
func panicSite() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(4, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if f.Function != "" && !strings.HasPrefix(f.Function, "runtime.") {
			return fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		}
		if !more {
			return "unknown"
		}
	}
}
