package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marcpiechura/ralph-wiggum/internal/workspace"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new Ralph workspace",
	Long: `Initialize a Ralph workspace in the project directory.

Creates .ralph/ folder with:
  - config.yaml      Configuration settings
  - prompts/         Editable prompt templates (plan, build, validate, workpackage)
  - .gitignore       Keeps the run log and lock file out of git`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := projectDir
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			dir = cwd
		}
		dir, err := filepath.Abs(dir)
		if err != nil {
			return err
		}

		if err := workspace.Init(dir, initForce); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Initialized Ralph workspace in %s\n\n", workspace.Path(dir))
		fmt.Fprintln(out, "Next steps:")
		fmt.Fprintln(out, "  1. Describe the project in AGENTS.md and specs/")
		fmt.Fprintln(out, "  2. Adjust .ralph/config.yaml (validation_command in particular)")
		fmt.Fprintln(out, "  3. Run 'ralph plan', then 'ralph build'")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing workspace")
	rootCmd.AddCommand(initCmd)
}
