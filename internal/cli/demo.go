package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	xterm "golang.org/x/term"

	"github.com/mvilar/liveline/internal/config"
	"github.com/mvilar/liveline/internal/progress"
)

// demo command flags
var (
	demoMaxFlag   float64
	demoStyleFlag string
	demoTitleFlag string
	demoDelayFlag time.Duration
	demoQuietFlag bool
)

// demoCmd drives a synthetic workload through a progress session.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a synthetic progress workload",
	Long: `Drive a fake task through a progress session.

The live line updates on every step; a few log lines are printed mid-run
to show how intercepted output is relayed above the live line.

Examples:
  liveline demo
  liveline demo --max 50 --delay 100ms
  liveline demo --style loading`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("max") {
			cfg.MaxValue = demoMaxFlag
		}
		if demoTitleFlag != "" {
			cfg.Title = demoTitleFlag
		}
		if demoStyleFlag != "" {
			cfg.Style = demoStyleFlag
		} else if interactive() {
			if style, err := pickStyle(); err == nil {
				cfg.Style = style
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		sess := buildSession(cfg)
		return sess.Run(func(s *progress.Session) error {
			total := int(cfg.MaxValue)
			for i := 0; i < total; i++ {
				if err := s.Advance(float64(i)); err != nil {
					return err
				}
				if !demoQuietFlag && total >= 4 && i == total/2 {
					// Lands in the capture buffer, relayed above the line.
					fmt.Println("halfway through the workload")
				}
				time.Sleep(demoDelayFlag)
			}
			return nil
		})
	},
}

// interactive reports whether stdin is a terminal, so prompts make sense.
func interactive() bool {
	return xterm.IsTerminal(int(os.Stdin.Fd()))
}

// pickStyle asks which leading field to use.
func pickStyle() (string, error) {
	style := config.StyleBar
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Leading progress field").
				Options(
					huh.NewOption("Progress bar", config.StyleBar),
					huh.NewOption("Loading dots", config.StyleLoading),
				).
				Value(&style),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return style, nil
}

func init() {
	demoCmd.Flags().Float64Var(&demoMaxFlag, "max", 100, "progress ceiling")
	demoCmd.Flags().StringVar(&demoStyleFlag, "style", "", `leading field: "bar" or "loading"`)
	demoCmd.Flags().StringVar(&demoTitleFlag, "title", "", "display name for the session")
	demoCmd.Flags().DurationVar(&demoDelayFlag, "delay", 50*time.Millisecond, "pause between steps")
	demoCmd.Flags().BoolVar(&demoQuietFlag, "quiet", false, "skip the mid-run log lines")

	rootCmd.AddCommand(demoCmd)
}
