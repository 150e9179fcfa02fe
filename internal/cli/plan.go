package cli

import (
	"github.com/spf13/cobra"

	"github.com/marcpiechura/ralph-wiggum/internal/orchestrator"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Create or update the implementation plan",
	Long: `Run a single planning thread. The agent reads AGENTS.md and the specs
directory and writes the plan file. Ralph then reports the task count and
any problems found in the plan.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, orchestrator.ModePlan)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
