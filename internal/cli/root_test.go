package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/marcpiechura/ralph-wiggum/internal/config"
	"github.com/marcpiechura/ralph-wiggum/internal/plan"
	"github.com/marcpiechura/ralph-wiggum/internal/workspace"
)

const testPlan = `# Implementation Plan

- [x] P0.1 Scaffold
  - scope: internal/core
  - validation: go test ./internal/core/...
  - status: completed

- [ ] P0.2 Parser
  - scope: internal/plan
  - validation: go test ./internal/plan/...
  - status: not_started
  - assigned_thread:
  - depends_on: P0.1

- [ ] P0.3 Parser errors
  - scope: internal/plan/errors.go
  - validation: go test ./internal/plan/...
  - status: not_started
  - depends_on: P0.2
`

// execute runs the root command with args and returns its combined output.
// Flags start from their defaults on every call.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writePlan(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "IMPLEMENTATION_PLAN.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", "-p", dir)
	if err != nil {
		t.Fatalf("init error = %v\n%s", err, out)
	}
	if _, err := os.Stat(config.Path(dir)); err != nil {
		t.Errorf("config not written: %v", err)
	}
	if !strings.Contains(out, "Next steps") {
		t.Errorf("output missing next steps:\n%s", out)
	}

	if _, err := execute(t, "init", "-p", dir); !errors.Is(err, workspace.ErrWorkspaceExists) {
		t.Errorf("second init error = %v, want ErrWorkspaceExists", err)
	}
	if _, err := execute(t, "init", "-p", dir, "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, testPlan)

	out, err := execute(t, "status", "-p", dir, "--packages")
	if err != nil {
		t.Fatalf("status error = %v\n%s", err, out)
	}

	for _, want := range []string{
		"P0.1 Scaffold",
		"Progress: 1/3 complete",
		"P0.2 Parser",
		"Work packages (1):",
		"P0.2, P0.3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestStatusCommand_Prompt(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, testPlan)

	out, err := execute(t, "status", "-p", dir, "--prompt")
	if err != nil {
		t.Fatalf("status error = %v\n%s", err, out)
	}
	for _, want := range []string{"# Build Work Package", "- P0.2: Parser", "in order: P0.2, P0.3"} {
		if !strings.Contains(out, want) {
			t.Errorf("status --prompt output missing %q:\n%s", want, out)
		}
	}
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, testPlan)

	out, err := execute(t, "status", "-p", dir, "--plan", "OTHER.md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No plan found at OTHER.md") {
		t.Fatalf("--plan not applied:\n%s", out)
	}

	out, err = execute(t, "status", "-p", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Progress: 1/3 complete") {
		t.Errorf("--plan from the previous run leaked:\n%s", out)
	}
}

func TestProjectDirFromWorkspace(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "init", "-p", dir); err != nil {
		t.Fatal(err)
	}
	writePlan(t, dir, testPlan)
	sub := filepath.Join(dir, "internal", "plan")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	chdir(t, sub)

	out, err := execute(t, "status")
	if err != nil {
		t.Fatalf("status error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Progress: 1/3 complete") {
		t.Errorf("status did not find the workspace root:\n%s", out)
	}
}

func TestConfigCommand_NoWorkspace(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := execute(t, "config"); !errors.Is(err, workspace.ErrNoWorkspace) {
		t.Errorf("config error = %v, want ErrNoWorkspace", err)
	}
}

func TestStatusCommand_NoPlan(t *testing.T) {
	out, err := execute(t, "status", "-p", t.TempDir())
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(out, "No plan found") {
		t.Errorf("output = %q, want a missing plan warning", out)
	}
}

func TestMarkCommand(t *testing.T) {
	dir := t.TempDir()
	path := writePlan(t, dir, testPlan)

	out, err := execute(t, "mark", "P0.2", "completed", "-p", dir, "--thread", "https://ampcode.com/threads/T-9")
	if err != nil {
		t.Fatalf("mark error = %v\n%s", err, out)
	}

	tasks, err := plan.NewStore(path).Tasks()
	if err != nil {
		t.Fatal(err)
	}
	got, _ := plan.Find(tasks, "P0.2")
	if got.Status != plan.StatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if got.AssignedThread != "https://ampcode.com/threads/T-9" {
		t.Errorf("assigned_thread = %q", got.AssignedThread)
	}
}

func TestMarkCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, testPlan)

	if _, err := execute(t, "mark", "P0.2", "done", "-p", dir); err == nil {
		t.Error("mark with invalid status succeeded")
	}
	if _, err := execute(t, "mark", "P7.7", "completed", "-p", dir); !errors.Is(err, plan.ErrTaskNotFound) {
		t.Errorf("mark unknown task error = %v, want ErrTaskNotFound", err)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, testPlan)

	out, err := execute(t, "check", "-p", dir)
	if err != nil {
		t.Fatalf("check error = %v\n%s", err, out)
	}

	writePlan(t, dir, testPlan+`
- [ ] P0.3 Duplicate
  - validation: go test ./...
`)
	out, err = execute(t, "check", "-p", dir)
	if !errors.Is(err, errPlanInvalid) {
		t.Fatalf("check error = %v, want errPlanInvalid", err)
	}
	if !strings.Contains(out, "duplicate task id") {
		t.Errorf("output missing duplicate id error:\n%s", out)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "init", "-p", dir); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "config", "max_iterations", "7", "-p", dir); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	out, err := execute(t, "config", "max_iterations", "-p", dir)
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if strings.TrimSpace(out) != "7" {
		t.Errorf("config get = %q, want 7", out)
	}

	if _, err := execute(t, "config", "log_level", "loud", "-p", dir); err == nil {
		t.Error("config set accepted an invalid log_level")
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(dir) {
		if abs, err := os.Getwd(); err == nil {
			dir = abs
		}
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
