package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcpiechura/ralph-wiggum/internal/plan"
)

var errPlanInvalid = errors.New("plan has errors")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Lint the implementation plan",
	Long: `Check the plan for problems the build loop would trip over:

  - duplicate task ids
  - dependencies on unknown tasks, on the task itself, or in a cycle
  - validation commands that are missing or are not valid shell

Exits non-zero when any error is found. Warnings are reported only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		d := newDisplay(cmd, cfg)
		store := plan.NewStore(cfg.PlanPath())
		if !store.Exists() {
			return fmt.Errorf("plan file not found: %s", cfg.PlanPath())
		}

		tasks, err := store.Tasks()
		if err != nil {
			return err
		}

		issues := plan.Lint(tasks, cfg.ValidationCommand)
		for _, issue := range issues {
			if issue.Severity == plan.SeverityError {
				d.Error(issue.TaskID + ": " + issue.Message)
			} else {
				d.Warning(issue.TaskID + ": " + issue.Message)
			}
		}

		if plan.HasErrors(issues) {
			return errPlanInvalid
		}
		d.Success(fmt.Sprintf("%d tasks, %d warnings", len(tasks), len(issues)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
