package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marcpiechura/ralph-wiggum/internal/config"
	"github.com/marcpiechura/ralph-wiggum/internal/orchestrator"
	"github.com/marcpiechura/ralph-wiggum/internal/workspace"
)

var (
	version    = "2.0.0"
	cfgFile    string
	projectDir string
)

var rootCmd = &cobra.Command{
	Use:   "ralph",
	Short: "Plan/build loop for the amp coding agent",
	Long: `Ralph drives the amp coding agent through planning and build threads
against a markdown task plan (IMPLEMENTATION_PLAN.md).

Modes:
  plan   - Create or update the plan from the specs
  build  - Work through the plan one task per thread, then validate
  auto   - Plan, build and validate (default)

Get started:
  ralph init              Write .ralph/config.yaml and prompt templates
  ralph plan              Create the implementation plan
  ralph status            Show task progress
  ralph                   Run everything`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, orchestrator.ModeAuto)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaults := config.DefaultConfig()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is <project>/.ralph/config.yaml)")
	flags.StringVarP(&projectDir, "project", "p", "", "project directory (default is the current directory)")
	flags.BoolP("verbose", "v", false, "show agent output and tool calls")
	flags.String("specs", defaults.SpecsDir, "specs directory")
	flags.String("plan", defaults.PlanFile, "plan file")
	flags.String("validation", defaults.ValidationCommand, "default validation command")
	flags.Int("max-iterations", defaults.MaxIterations, "maximum build iterations")
	flags.Int("max-failures", defaults.MaxConsecutiveFailures, "consecutive failed threads before stopping")
	flags.String("agent", defaults.Agent.Binary, "agent binary name or path")
	flags.Bool("force-blocked", false, "run a dependency-blocked task when nothing else is available")
	flags.Bool("no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(fmt.Sprintf("ralph version %s\n", version))
}

// loadConfig resolves the configuration for cmd from file and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	dir, err := resolveProjectDir()
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(config.LoadOptions{
		ProjectDir: dir,
		ConfigFile: cfgFile,
		Flags:      cmd.Flags(),
	})
}

// resolveProjectDir returns --project, else the nearest directory above the
// working directory holding a .ralph workspace, else the working directory.
func resolveProjectDir() (string, error) {
	if projectDir != "" {
		return filepath.Abs(projectDir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir, err := workspace.Find(cwd)
	if errors.Is(err, workspace.ErrNoWorkspace) {
		return cwd, nil
	}
	return dir, err
}
