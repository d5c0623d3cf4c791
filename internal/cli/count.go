package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvilar/liveline/internal/errors"
	"github.com/mvilar/liveline/internal/progress"
)

var countDelayFlag time.Duration

// countCmd iterates a counted sequence through the progress iterator.
var countCmd = &cobra.Command{
	Use:   "count <n>",
	Short: "Iterate n steps through a progress-tracked sequence",
	Long: `Wrap a sequence of n elements in a progress session and consume it.

The session starts before the first element, reports every index, and
stops after the last one.

Examples:
  liveline count 20
  liveline count 200 --delay 10ms`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return errors.InvalidArgument("count %q is not a positive integer", args[0])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.MaxValue = float64(n)
		if err := cfg.Validate(); err != nil {
			return err
		}

		sess := buildSession(cfg)
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		for range progress.Iter(sess, items) {
			time.Sleep(countDelayFlag)
		}
		return nil
	},
}

func init() {
	countCmd.Flags().DurationVar(&countDelayFlag, "delay", 25*time.Millisecond, "pause between elements")
	rootCmd.AddCommand(countCmd)
}
