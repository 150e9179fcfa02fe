package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcpiechura/ralph-wiggum/internal/plan"
)

func TestGet_AllNames(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			content, err := Get(name)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", name, err)
			}
			if content == "" {
				t.Errorf("Get(%q) returned empty template", name)
			}
		})
	}
}

func TestRender_Plan(t *testing.T) {
	got, err := Render(t.TempDir(), Plan, PlanData{
		SpecsDir:          "specs",
		PlanFile:          "IMPLEMENTATION_PLAN.md",
		ValidationCommand: "go test ./...",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{
		"# Planning Mode",
		"specs/",
		"IMPLEMENTATION_PLAN.md",
		"  - validation: go test ./...",
		"  - status: not_started",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("plan prompt missing %q", want)
		}
	}
}

func TestRender_Build(t *testing.T) {
	task := plan.Task{
		ID:          "P0.2",
		Description: "Add Plan Parser",
		Scope:       "internal/plan",
		DependsOn:   "P0.1",
	}

	tests := []struct {
		name        string
		data        BuildData
		contains    []string
		notContains []string
	}{
		{
			name: "with coordinator and dependency",
			data: NewBuildData(task, "IMPLEMENTATION_PLAN.md", "npm run check", "https://ampcode.com/threads/T-9"),
			contains: []string{
				"# Build: P0.2",
				"Coordinator: https://ampcode.com/threads/T-9",
				"- **Validation**: npm run check",
				"- **Depends on**: P0.1 (already completed)",
				"`- [ ] P0.2` to `- [x] P0.2`",
				"feat(plan): add plan parser",
			},
		},
		{
			name: "dependency not completed",
			data: func() BuildData {
				d := NewBuildData(task, "IMPLEMENTATION_PLAN.md", "npm run check", "")
				d.DependencyPending = true
				return d
			}(),
			contains:    []string{"- **Depends on**: P0.1 (NOT completed yet"},
			notContains: []string{"already completed"},
		},
		{
			name: "task validation wins, no coordinator",
			data: NewBuildData(plan.Task{ID: "P1.1", Description: "Docs", Validation: "make docs"}, "PLAN.md", "npm run check", ""),
			contains: []string{
				"- **Validation**: make docs",
				"feat(core): docs",
			},
			notContains: []string{"Coordinator:", "Depends on"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(t.TempDir(), Build, tt.data)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("build prompt missing %q\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("build prompt unexpectedly contains %q", unwanted)
				}
			}
		})
	}
}

func TestRender_Validate(t *testing.T) {
	got, err := Render(t.TempDir(), Validate, ValidationData{
		PlanFile:          "IMPLEMENTATION_PLAN.md",
		ValidationCommand: "npm run check",
		CompletionSignal:  "RALPH_COMPLETE",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(got, "**RALPH_COMPLETE**") {
		t.Errorf("validation prompt missing completion signal:\n%s", got)
	}
	if !strings.Contains(got, "`npm run check`") {
		t.Errorf("validation prompt missing command:\n%s", got)
	}
}

func TestRender_WorkPackage(t *testing.T) {
	pkg := plan.WorkPackage{
		Tasks: []plan.Task{
			{ID: "P0.1", Description: "First"},
			{ID: "P0.3", Description: "Third"},
		},
		Scope: "internal/plan",
	}
	got, err := Render(t.TempDir(), WorkPackage, NewWorkPackageData(pkg, "IMPLEMENTATION_PLAN.md", "go test ./..."))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{
		"- P0.1: First",
		"- P0.3: Third",
		"- **Validation**: go test ./...",
		"feat(plan): implement P0.1, P0.3",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("work package prompt missing %q\n%s", want, got)
		}
	}
}

func TestRender_WorkspaceOverride(t *testing.T) {
	promptsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(promptsDir, "validate.md"), []byte("custom {{.CompletionSignal}}"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Render(promptsDir, Validate, ValidationData{CompletionSignal: "DONE"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "custom DONE" {
		t.Errorf("Render() = %q, want %q", got, "custom DONE")
	}
}

func TestRender_BrokenOverride(t *testing.T) {
	promptsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(promptsDir, "plan.md"), []byte("{{.Missing"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Render(promptsDir, Plan, PlanData{}); err == nil {
		t.Error("Render() error = nil for unparseable override")
	}
}

func TestCommitScope(t *testing.T) {
	tests := []struct {
		scope string
		want  string
	}{
		{"internal/plan", "plan"},
		{"internal/plan/", "plan"},
		{"src/**/*.ts", "src"},
		{"cmd", "cmd"},
		{"", "core"},
		{"/", "core"},
	}
	for _, tt := range tests {
		t.Run(tt.scope, func(t *testing.T) {
			if got := CommitScope(tt.scope); got != tt.want {
				t.Errorf("CommitScope(%q) = %q, want %q", tt.scope, got, tt.want)
			}
		})
	}
}
