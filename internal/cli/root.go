// Package cli wires the liveline commands: a demo workload, a counted
// iteration, config bootstrap, and version output.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvilar/liveline/internal/config"
)

// Persistent flags
var (
	configFlag  string
	noColorFlag bool
)

// rootCmd is the base command for liveline.
var rootCmd = &cobra.Command{
	Use:   "liveline",
	Short: "Live single-line terminal progress",
	Long: `liveline renders one continuously updating progress line (bar,
percentage, estimated time) and intercepts anything the program prints
while it runs, relaying it as titled log lines above the live line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
}

// loadConfig resolves and loads the effective configuration, honoring the
// --config and --no-color flags.
func loadConfig() (config.Config, error) {
	path, err := config.Find(configFlag)
	if err != nil {
		return config.Default(), err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if noColorFlag {
		cfg.NoColor = true
	}
	return cfg, nil
}
