package cli

import (
	"github.com/spf13/cobra"

	"github.com/marcpiechura/ralph-wiggum/internal/orchestrator"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Work through the plan, then validate",
	Long: `Run the build loop: one agent thread per task, highest priority first,
respecting depends_on. The loop stops when every task is done, every
remaining task is blocked, too many threads fail in a row, or the iteration
limit is reached. A final validation thread runs afterwards.

Press Ctrl+C to stop after the current thread finishes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, orchestrator.ModeBuild)
	},
}

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Plan, build and validate (default)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, orchestrator.ModeAuto)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(autoCmd)
}
