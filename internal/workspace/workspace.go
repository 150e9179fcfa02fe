package workspace

import (
	"errors"
	"os"
	"path/filepath"
)

const RalphDir = ".ralph"

var ErrNoWorkspace = errors.New("no ralph workspace found (run 'ralph init' first)")
var ErrWorkspaceExists = errors.New("ralph workspace already exists (use --force to overwrite)")

// Find walks up from dir looking for a .ralph/ directory
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		ralphPath := filepath.Join(dir, RalphDir)
		if info, err := os.Stat(ralphPath); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoWorkspace
		}
		dir = parent
	}
}

// Path returns the .ralph directory path for a project
func Path(projectDir string) string {
	return filepath.Join(projectDir, RalphDir)
}

// PromptsDir returns the directory holding prompt overrides
func PromptsDir(projectDir string) string {
	return filepath.Join(projectDir, RalphDir, "prompts")
}

// LogPath returns the structured run log path
func LogPath(projectDir string) string {
	return filepath.Join(projectDir, RalphDir, "ralph.log")
}

// LockPath returns the run lock path
func LockPath(projectDir string) string {
	return filepath.Join(projectDir, RalphDir, "run.lock")
}
