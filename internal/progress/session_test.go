package progress

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvilar/liveline/internal/capture"
	"github.com/mvilar/liveline/internal/errors"
	"github.com/mvilar/liveline/internal/logger"
	"github.com/mvilar/liveline/internal/render"
	"github.com/mvilar/liveline/internal/term"
)

func newTestSession(t *testing.T, opts ...Option) (*Session, *strings.Builder) {
	t.Helper()
	var buf strings.Builder
	console := term.New("Job", term.WithOutput(&buf), term.WithColors(false))
	interceptor := capture.New(console,
		capture.WithoutRedirect(),
		capture.WithLogger(logger.Noop()),
		capture.WithInterval(10*time.Millisecond),
	)
	base := []Option{
		WithConsole(console),
		WithInterceptor(interceptor),
		WithLogger(logger.Noop()),
	}
	s := New("Job", append(base, opts...)...)
	t.Cleanup(s.Stop)
	return s, &buf
}

func TestNewDefaults(t *testing.T) {
	s, _ := newTestSession(t)

	assert.Equal(t, float64(DefaultMaxValue), s.MaxValue())
	assert.Equal(t, []render.Kind{render.KindBar, render.KindPercent, render.KindTime}, s.StateKinds())
	assert.False(t, s.IsRunning())
	assert.False(t, s.IsAwaiting())
}

func TestPercent(t *testing.T) {
	s, _ := newTestSession(t, WithMaxValue(200))

	assert.InDelta(t, 25.0, s.Percent(50), 1e-9)
	assert.InDelta(t, 100.0, s.Percent(200), 1e-9)
	assert.InDelta(t, 150.0, s.Percent(300), 1e-9)
}

func TestStartStopLifecycle(t *testing.T) {
	s, _ := newTestSession(t)

	s.Start()
	assert.True(t, s.IsRunning())
	assert.True(t, s.IsAwaiting())

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.False(t, s.IsAwaiting())

	// Stop on a stopped session is a no-op.
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestStartResetsCounters(t *testing.T) {
	s, _ := newTestSession(t, WithMaxValue(10))

	s.Start()
	require.NoError(t, s.Advance(3))
	assert.Equal(t, 3.0, s.CurrentValue())
	assert.Equal(t, 1, s.Ticks())

	s.Start()
	assert.Equal(t, 0.0, s.CurrentValue())
	assert.Equal(t, 0, s.Ticks())
	assert.True(t, s.IsAwaiting())
}

func TestSetMaxValueRejectsInvalid(t *testing.T) {
	s, _ := newTestSession(t, WithMaxValue(10))

	for _, bad := range []float64{0, -5} {
		err := s.SetMaxValue(bad)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
	}
	// Rejected values leave everything untouched.
	assert.Equal(t, 10.0, s.MaxValue())
	assert.False(t, s.IsRunning())
}

func TestSetMaxValueSameIsNoOp(t *testing.T) {
	s, _ := newTestSession(t, WithMaxValue(10))

	s.Start()
	require.NoError(t, s.Advance(3))
	require.NoError(t, s.SetMaxValue(10))

	// No restart: progress survives.
	assert.Equal(t, 3.0, s.CurrentValue())
	assert.Equal(t, 1, s.Ticks())
}

func TestSetMaxValueRestartsOnChange(t *testing.T) {
	s, _ := newTestSession(t, WithMaxValue(10))

	s.Start()
	require.NoError(t, s.Advance(3))
	require.NoError(t, s.SetMaxValue(50))

	assert.Equal(t, 50.0, s.MaxValue())
	assert.Equal(t, 0.0, s.CurrentValue())
	assert.Equal(t, 0, s.Ticks())
	assert.True(t, s.IsRunning())
}

func TestAdvanceWithInlineMaxValue(t *testing.T) {
	s, _ := newTestSession(t, WithMaxValue(10))

	s.Start()
	require.NoError(t, s.Advance(2, 20))
	assert.Equal(t, 20.0, s.MaxValue())
	assert.Equal(t, 2.0, s.CurrentValue())

	err := s.Advance(2, -1)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestAdvanceRendersFragmentsInOrder(t *testing.T) {
	s, buf := newTestSession(t, WithMaxValue(100))

	s.Start()
	require.NoError(t, s.Advance(50))
	s.Stop()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	var progressLine string
	for _, l := range lines {
		if strings.Contains(l, "%") {
			progressLine = l
		}
	}
	require.NotEmpty(t, progressLine)

	frags := strings.Split(progressLine, " - ")
	require.Len(t, frags, 3)
	assert.Contains(t, frags[0], "[===============>")
	assert.Contains(t, frags[1], "050.00%")
	assert.Contains(t, frags[2], "estimated")
}

func TestAdvanceCompletesOneBeforeCeiling(t *testing.T) {
	s, buf := newTestSession(t, WithMaxValue(10))

	s.Start()
	require.NoError(t, s.Advance(8))
	assert.NotContains(t, buf.String(), "Done! ✅")

	require.NoError(t, s.Advance(9))
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "Done! ✅")
	// Completed bar is fully filled, no arrow.
	assert.Contains(t, out, "["+strings.Repeat("=", 30)+"]")
	assert.Contains(t, out, "100.00%")
	assert.Contains(t, out, "total")
}

func TestAdvanceAtCeilingCompletes(t *testing.T) {
	s, buf := newTestSession(t, WithMaxValue(10))

	s.Start()
	require.NoError(t, s.Advance(10))
	assert.Contains(t, buf.String(), "Done! ✅")
}

func TestIdleFramesStopBeforeFirstUpdate(t *testing.T) {
	s, buf := newTestSession(t, WithMaxValue(100), WithIdleInterval(5*time.Millisecond))

	s.Start()
	time.Sleep(40 * time.Millisecond)
	require.NoError(t, s.Advance(10))
	s.Stop()

	out := buf.String()
	lastIdle := strings.LastIndex(out, "Awaiting")
	firstUpdate := strings.Index(out, "010.00%")
	require.GreaterOrEqual(t, lastIdle, 0)
	require.GreaterOrEqual(t, firstUpdate, 0)
	assert.Less(t, lastIdle, firstUpdate)
	assert.False(t, s.IsAwaiting())
}

func TestIdleFinalFrame(t *testing.T) {
	s, buf := newTestSession(t, WithIdleInterval(5*time.Millisecond))

	s.Start()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Advance(1))

	assert.Contains(t, buf.String(), "Awaiting... Done!")
}

func TestAddStates(t *testing.T) {
	s, buf := newTestSession(t)
	require.Equal(t, 3, s.Len())

	s.AddStates(render.NewLoading())
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 1, strings.Count(buf.String(), "Added new states!"))
	assert.Contains(t, buf.String(), "[loading]")
}

func TestAddStatesSkipsDuplicatesAndAwaiting(t *testing.T) {
	s, buf := newTestSession(t)

	s.AddStates(render.NewBar(), render.NewAwaiting(), nil, render.NewLoading(), render.NewLoading())
	assert.Equal(t, 4, s.Len())
	// Only the loading state was new, announced once.
	assert.Equal(t, 1, strings.Count(buf.String(), "Added new states!"))

	buf.Reset()
	s.AddStates(render.NewLoading())
	assert.Empty(t, buf.String())
}

func TestWithStatesDedupes(t *testing.T) {
	s, _ := newTestSession(t, WithStates(render.NewPercent(), render.NewPercent(), render.NewAwaiting(), render.NewBar()))

	assert.Equal(t, []render.Kind{render.KindPercent, render.KindBar}, s.StateKinds())
}

func TestStateAtAndReplace(t *testing.T) {
	s, _ := newTestSession(t)

	st, err := s.StateAt(1)
	require.NoError(t, err)
	assert.Equal(t, render.KindPercent, st.Kind())

	_, err = s.StateAt(9)
	assert.True(t, errors.IsInvalidArgument(err))

	require.NoError(t, s.ReplaceStateAt(1, render.NewLoading()))
	assert.Equal(t, []render.Kind{render.KindBar, render.KindLoading, render.KindTime}, s.StateKinds())

	assert.True(t, errors.IsInvalidArgument(s.ReplaceStateAt(0, nil)))
	assert.True(t, errors.IsInvalidArgument(s.ReplaceStateAt(-1, render.NewBar())))
}

func TestStateByKey(t *testing.T) {
	s, _ := newTestSession(t)

	st, err := s.StateByKey("bar")
	require.NoError(t, err)
	assert.Equal(t, render.KindBar, st.Kind())

	_, err = s.StateByKey("spinner")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = s.StateByKey("loading")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestRunStartsAndStops(t *testing.T) {
	s, _ := newTestSession(t, WithMaxValue(10))

	var sawRunning bool
	err := s.Run(func(sess *Session) error {
		sawRunning = sess.IsRunning()
		return sess.Advance(5)
	})
	require.NoError(t, err)
	assert.True(t, sawRunning)
	assert.False(t, s.IsRunning())
}

func TestRunReportsError(t *testing.T) {
	s, buf := newTestSession(t)

	wantErr := errors.New(errors.ErrRuntime, "task failed")
	err := s.Run(func(*Session) error { return wantErr })
	require.ErrorIs(t, err, wantErr)
	assert.Contains(t, buf.String(), "task failed")
	assert.Contains(t, buf.String(), "Error:")
}

func TestRunBenignErrorNotReported(t *testing.T) {
	s, buf := newTestSession(t)

	benign := fmt.Errorf("nothing to do: %w", errors.ErrBenign)
	err := s.Run(func(*Session) error { return benign })
	require.ErrorIs(t, err, errors.ErrBenign)
	assert.NotContains(t, buf.String(), "Error:")
}

func TestRunPanicReportedAndReraised(t *testing.T) {
	s, buf := newTestSession(t)

	assert.Panics(t, func() {
		_ = s.Run(func(*Session) error { panic("exploded") })
	})
	assert.Contains(t, buf.String(), "exploded")
	assert.False(t, s.IsRunning())
}

func TestErrorContext(t *testing.T) {
	structured := errors.New(errors.ErrConfig, "bad config")
	assert.Contains(t, errorContext(structured), "bad config")
	assert.Contains(t, errorContext(structured), ".go:")

	plain := stderrors.New("plain failure")
	assert.Equal(t, "plain failure", errorContext(plain))
}
