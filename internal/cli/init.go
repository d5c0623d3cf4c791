package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvilar/liveline/internal/config"
)

var initForceFlag bool

// initCmd writes a starter configuration file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .liveline.yaml configuration",
	Long: `Write a starter configuration file with the defaults in the
current directory.

Examples:
  liveline init
  liveline init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Default().Write(config.FileName, initForceFlag); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", config.FileName)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}
