package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcpiechura/ralph-wiggum/internal/plan"
)

var markThread string

var markCmd = &cobra.Command{
	Use:   "mark <task-id> <status>",
	Short: "Set a task's status in the plan",
	Long: `Set the status of one task, editing only its checkbox, status and
assigned_thread lines. Everything else in the plan is left untouched.

Statuses: not_started, in_progress, completed, blocked

Examples:
  ralph mark P1.2 completed
  ralph mark P2.1 in_progress --thread https://ampcode.com/threads/T-123`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 1 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var names []string
		for _, s := range plan.AllStatuses() {
			names = append(names, s.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(args[0])
		status, err := plan.ParseStatus(args[1])
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		store := plan.NewStore(cfg.PlanPath())
		if err := store.UpdateStatus(id, status, markThread); err != nil {
			return err
		}

		d := newDisplay(cmd, cfg)
		d.Success(fmt.Sprintf("%s marked %s", id, status))
		return nil
	},
}

func init() {
	markCmd.Flags().StringVar(&markThread, "thread", "", "record the thread URL in assigned_thread")
	rootCmd.AddCommand(markCmd)
}
