package cli

import (
	"github.com/mvilar/liveline/internal/capture"
	"github.com/mvilar/liveline/internal/config"
	"github.com/mvilar/liveline/internal/progress"
	"github.com/mvilar/liveline/internal/render"
	"github.com/mvilar/liveline/internal/term"
)

// buildSession assembles the console, interceptor and session from an
// effective configuration.
func buildSession(cfg config.Config) *progress.Session {
	var termOpts []term.Option
	if cfg.NoColor {
		termOpts = append(termOpts, term.WithColors(false))
	}
	console := term.New(cfg.Title, termOpts...)

	interceptor := capture.New(console, capture.WithInterval(cfg.RelayInterval))

	return progress.New(cfg.Title,
		progress.WithConsole(console),
		progress.WithInterceptor(interceptor),
		progress.WithMaxValue(cfg.MaxValue),
		progress.WithStates(statesFor(cfg)...),
	)
}

// statesFor returns the field order for a configured style.
func statesFor(cfg config.Config) []render.State {
	bar := render.NewBar()
	if cfg.Width > 0 {
		bar.Width = cfg.Width
	}

	if cfg.Style == config.StyleLoading {
		return []render.State{render.NewLoading(), render.NewPercent(), render.NewTime()}
	}
	return []render.State{bar, render.NewPercent(), render.NewTime()}
}
