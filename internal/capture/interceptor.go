// Package capture intercepts process output streams while a progress
// session is live. Writes to the intercepted streams land in private
// buffers; a background relay periodically drains them and re-emits the
// content as titled log lines above the live progress line, so ordinary
// prints do not corrupt it.
package capture

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mvilar/liveline/internal/errors"
	"github.com/mvilar/liveline/internal/logger"
	"github.com/mvilar/liveline/internal/term"
)

// DefaultInterval is the relay drain period. One second of latency for
// interleaved logs is accepted by design.
const DefaultInterval = time.Second

const (
	tagOut = "Sys[out]"
	tagErr = "Sys[err]"
)

// Interceptor owns two capture buffers and, when active, the redirection of
// a pair of *os.File stream slots (os.Stdout and os.Stderr by default).
// Each instance is independent: tests can run several interceptors against
// private slots without process-global interference.
type Interceptor struct {
	console  *term.Console
	log      logger.Logger
	interval time.Duration

	mu     sync.Mutex
	outBuf bytes.Buffer
	errBuf bytes.Buffer
	active bool

	redirect   bool
	stdoutSlot **os.File
	stderrSlot **os.File

	origOut  *os.File
	origErr  *os.File
	pipeOutW *os.File
	pipeErrW *os.File
	readers  sync.WaitGroup

	stopCh chan struct{}
	doneCh chan struct{}
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithInterval overrides the relay drain period.
func WithInterval(d time.Duration) Option {
	return func(i *Interceptor) {
		if d > 0 {
			i.interval = d
		}
	}
}

// WithLogger sets the logger for background relay faults.
func WithLogger(l logger.Logger) Option {
	return func(i *Interceptor) { i.log = l }
}

// WithTargets redirects the given stream slots instead of os.Stdout and
// os.Stderr.
func WithTargets(stdout, stderr **os.File) Option {
	return func(i *Interceptor) {
		i.stdoutSlot = stdout
		i.stderrSlot = stderr
	}
}

// WithoutRedirect disables stream redirection; captured content arrives
// only through OutWriter and ErrWriter. Intended for tests.
func WithoutRedirect() Option {
	return func(i *Interceptor) { i.redirect = false }
}

// New creates an inactive interceptor bound to a console.
func New(console *term.Console, opts ...Option) *Interceptor {
	i := &Interceptor{
		console:    console,
		log:        logger.NewEnvLogger("[capture]"),
		interval:   DefaultInterval,
		redirect:   true,
		stdoutSlot: &os.Stdout,
		stderrSlot: &os.Stderr,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Active reports whether the interceptor currently captures output.
func (i *Interceptor) Active() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.active
}

// OutWriter returns a writer that appends to the stdout capture buffer.
func (i *Interceptor) OutWriter() io.Writer { return &bufWriter{i: i, isErr: false} }

// ErrWriter returns a writer that appends to the stderr capture buffer.
func (i *Interceptor) ErrWriter() io.Writer { return &bufWriter{i: i, isErr: true} }

type bufWriter struct {
	i     *Interceptor
	isErr bool
}

func (w *bufWriter) Write(p []byte) (int, error) {
	w.i.mu.Lock()
	defer w.i.mu.Unlock()
	if w.isErr {
		return w.i.errBuf.Write(p)
	}
	return w.i.outBuf.Write(p)
}

// Activate begins capturing. When redirection is enabled, the stream slots
// are swapped for pipe write ends and reader goroutines feed the buffers.
// The relay loop starts in both modes. Activating an active interceptor is
// a no-op.
func (i *Interceptor) Activate() error {
	i.mu.Lock()
	if i.active {
		i.mu.Unlock()
		return nil
	}

	if i.redirect {
		outR, outW, err := os.Pipe()
		if err != nil {
			i.mu.Unlock()
			return errors.Wrap(err, errors.ErrRuntime, "cannot create stdout capture pipe")
		}
		errR, errW, err := os.Pipe()
		if err != nil {
			outR.Close()
			outW.Close()
			i.mu.Unlock()
			return errors.Wrap(err, errors.ErrRuntime, "cannot create stderr capture pipe")
		}

		i.origOut, i.origErr = *i.stdoutSlot, *i.stderrSlot
		*i.stdoutSlot = outW
		*i.stderrSlot = errW
		i.pipeOutW, i.pipeErrW = outW, errW

		i.readers.Add(2)
		go i.drainPipe(outR, false)
		go i.drainPipe(errR, true)
	}

	i.stopCh = make(chan struct{})
	i.doneCh = make(chan struct{})
	i.active = true
	i.mu.Unlock()

	go i.relayLoop()
	return nil
}

// Deactivate restores the stream slots, drains everything still buffered,
// stops the relay loop, and emits a final marker line through the console.
// Deactivating an inactive interceptor is a no-op.
func (i *Interceptor) Deactivate() {
	i.mu.Lock()
	if !i.active {
		i.mu.Unlock()
		return
	}
	i.active = false

	if i.redirect {
		*i.stdoutSlot = i.origOut
		*i.stderrSlot = i.origErr
	}
	outW, errW := i.pipeOutW, i.pipeErrW
	i.pipeOutW, i.pipeErrW = nil, nil
	i.mu.Unlock()

	// Closing the write ends lets the pipe readers see EOF and exit after
	// delivering any remaining bytes.
	if outW != nil {
		outW.Close()
	}
	if errW != nil {
		errW.Close()
	}
	i.readers.Wait()

	close(i.stopCh)
	<-i.doneCh

	i.Flush()
	painted, _ := i.console.Format("out!", term.Red)
	i.console.PrintLine("console " + painted)
}

// Flush drains both buffers immediately and relays any captured content.
func (i *Interceptor) Flush() {
	out, errText := i.snapshot()
	if strings.TrimSpace(out) != "" {
		i.console.Relay(tagOut, splitLines(out))
	}
	if strings.TrimSpace(errText) != "" {
		i.console.RelayError(tagErr, splitLines(errText))
	}
}

// snapshot atomically copies and clears both buffers.
func (i *Interceptor) snapshot() (string, string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.outBuf.String()
	errText := i.errBuf.String()
	i.outBuf.Reset()
	i.errBuf.Reset()
	return out, errText
}

func (i *Interceptor) relayLoop() {
	ticker := time.NewTicker(i.interval)
	defer ticker.Stop()
	defer close(i.doneCh)

	for {
		select {
		case <-i.stopCh:
			return
		case <-ticker.C:
			i.Flush()
		}
	}
}

func (i *Interceptor) drainPipe(r *os.File, isErr bool) {
	defer i.readers.Done()
	defer r.Close()

	buf := make([]byte, 4096)
	w := &bufWriter{i: i, isErr: isErr}
	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = w.Write(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				i.log.Error("capture reader: %v", err)
			}
			return
		}
	}
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	return strings.Split(s, "\n")
}
