package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcpiechura/ralph-wiggum/internal/config"
	"github.com/marcpiechura/ralph-wiggum/internal/plan"
	"github.com/marcpiechura/ralph-wiggum/internal/prompts"
	"github.com/marcpiechura/ralph-wiggum/internal/workspace"
)

var (
	statusPackages bool
	statusPrompt   bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show task progress",
	Long: `Show every task in the plan with its status, the task the build loop
would pick next, and overall progress.

Use --packages to show how remaining tasks group into work packages
(tasks with overlapping scope that could run in one thread). Add --prompt
to print the build prompt for the first package, ready to hand to amp.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		d := newDisplay(cmd, cfg)
		theme := d.Theme()

		store := plan.NewStore(cfg.PlanPath())
		if !store.Exists() {
			d.Warning(fmt.Sprintf("No plan found at %s", cfg.PlanFile))
			d.Println("\nRun 'ralph plan' to create one.")
			return nil
		}

		tasks, err := store.Tasks()
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			d.Warning(fmt.Sprintf("%s contains no tasks", cfg.PlanFile))
			return nil
		}

		counts := make(map[plan.Status]int)
		d.Println(theme.Bold(cfg.PlanFile))
		d.Println()
		for _, t := range tasks {
			counts[t.Status]++
			d.TaskLine(t.Status.String(), t.ID, t.Description, taskDetail(t))
		}

		done := counts[plan.StatusCompleted]
		d.Println()
		d.Println(fmt.Sprintf("Progress: %d/%d complete (%d in progress, %d blocked)",
			done, len(tasks), counts[plan.StatusInProgress], counts[plan.StatusBlocked]))

		sel := plan.SelectNext(tasks)
		switch {
		case sel.Task == nil:
			d.Success("Nothing left to do")
		case sel.Blocked:
			d.Warning(fmt.Sprintf("All remaining tasks are blocked (next would be %s, depends on %s)",
				sel.Task.ID, sel.Task.DependsOn))
		default:
			d.Info("Next", fmt.Sprintf("%s %s", sel.Task.ID, sel.Task.Description))
		}

		if statusPackages || statusPrompt {
			return printPackages(cmd, cfg, tasks)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusPackages, "packages", false, "group remaining tasks into work packages")
	statusCmd.Flags().BoolVar(&statusPrompt, "prompt", false, "print the build prompt for the first work package")
	rootCmd.AddCommand(statusCmd)
}

func taskDetail(t plan.Task) string {
	var parts []string
	if t.DependsOn != "" && !t.IsComplete() {
		parts = append(parts, "after "+t.DependsOn)
	}
	if t.Scope != "" {
		parts = append(parts, t.Scope)
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func printPackages(cmd *cobra.Command, cfg config.Config, tasks []plan.Task) error {
	packages := plan.GroupIntoWorkPackages(plan.ListIncomplete(tasks))
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\nWork packages (%d):\n", len(packages))
	for i, p := range packages {
		scope := p.Scope
		if scope == "" {
			scope = "no scope"
		}
		fmt.Fprintf(out, "  %d. %s [%s]\n", i+1, strings.Join(p.IDs(), ", "), scope)
	}

	if !statusPrompt || len(packages) == 0 {
		return nil
	}
	prompt, err := prompts.Render(workspace.PromptsDir(cfg.ProjectDir), prompts.WorkPackage,
		prompts.NewWorkPackageData(packages[0], cfg.PlanFile, cfg.ValidationCommand))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s", prompt)
	return nil
}
