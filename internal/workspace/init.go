package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcpiechura/ralph-wiggum/internal/config"
	"github.com/marcpiechura/ralph-wiggum/internal/prompts"
)

// Init creates a .ralph workspace in projectDir with a default config and
// editable copies of the prompt templates. With force, an existing
// workspace is replaced.
func Init(projectDir string, force bool) error {
	ralphPath := Path(projectDir)

	if _, err := os.Stat(ralphPath); err == nil {
		if !force {
			return ErrWorkspaceExists
		}
		if err := os.RemoveAll(ralphPath); err != nil {
			return fmt.Errorf("failed to remove existing workspace: %w", err)
		}
	}

	if err := os.MkdirAll(PromptsDir(projectDir), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", PromptsDir(projectDir), err)
	}

	if err := writeFile(config.Path(projectDir), defaultConfig); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(ralphPath, ".gitignore"), defaultGitignore); err != nil {
		return err
	}

	return copyPrompts(PromptsDir(projectDir))
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func copyPrompts(promptsDir string) error {
	for _, name := range prompts.Names() {
		content, err := prompts.Get(name)
		if err != nil {
			return fmt.Errorf("failed to get embedded prompt %s: %w", name, err)
		}
		if err := writeFile(filepath.Join(promptsDir, name+".md"), content); err != nil {
			return err
		}
	}
	return nil
}

const defaultConfig = `# Ralph configuration
specs_dir: specs                        # Requirements read by the planning thread
plan_file: IMPLEMENTATION_PLAN.md       # Task checklist shared with the agent
validation_command: npm run check       # Default for tasks without their own

max_iterations: 50                      # Build threads per run
max_consecutive_failures: 3             # Stop after this many failed threads in a row
iteration_delay: 500ms                  # Pause after a successful thread
completion_signal: RALPH_COMPLETE       # Printed by the validation thread when done
force_blocked: false                    # Run a dependency-gated task when nothing else is left

log_level: info                         # .ralph/ralph.log level: debug | info | warn | error

agent:
  binary: amp                           # Name or path of the amp CLI
  allow_all: true                       # Pass --dangerously-allow-all
  thread_url_base: https://ampcode.com/threads/
`

const defaultGitignore = `ralph.log
run.lock
`
