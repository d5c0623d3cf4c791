package progress

import (
	"sync"
	"time"

	"github.com/mvilar/liveline/internal/render"
	"github.com/mvilar/liveline/internal/term"
)

// animator renders the idle "Awaiting" frames on the live line until the
// first explicit update, a stop signal, or an optional timeout. It checks
// for cancellation before every frame, so once stop has been requested no
// further idle frame can land on the console.
type animator struct {
	console  *term.Console
	state    render.State
	interval time.Duration
	timeout  time.Duration

	cancel chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newAnimator(console *term.Console, interval, timeout time.Duration) *animator {
	return &animator{
		console:  console,
		state:    render.NewAwaiting(),
		interval: interval,
		timeout:  timeout,
		cancel:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// run loops until cancelled or timed out, then renders the final idle frame
// exactly once and closes done.
func (a *animator) run() {
	defer close(a.done)

	started := time.Now()
	ticks := 0
	for {
		select {
		case <-a.cancel:
			a.finish()
			return
		default:
		}

		a.console.ReplaceLastLine(a.state.Display(render.Metrics{Ticks: ticks}))
		ticks++

		if a.timeout > 0 && time.Since(started) >= a.timeout {
			a.finish()
			return
		}

		select {
		case <-a.cancel:
			a.finish()
			return
		case <-time.After(a.interval):
		}
	}
}

func (a *animator) finish() {
	a.console.ReplaceLastLine(a.state.Done(render.Metrics{}))
}

// stop requests cancellation and blocks until the final frame has been
// written. Safe to call multiple times and after run has already returned.
func (a *animator) stop() {
	a.once.Do(func() { close(a.cancel) })
	<-a.done
}
