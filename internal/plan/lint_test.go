package plan

import (
	"strings"
	"testing"
)

func TestLint(t *testing.T) {
	tests := []struct {
		name       string
		tasks      []Task
		def        string
		wantIssues []string
		wantErrors bool
	}{
		{
			name: "clean plan",
			tasks: []Task{
				{ID: "P0.1", Validation: "go test ./..."},
				{ID: "P0.2", DependsOn: "P0.1"},
			},
			def: "npm run check",
		},
		{
			name: "duplicate id",
			tasks: []Task{
				{ID: "P0.1"},
				{ID: "P0.1"},
			},
			def:        "make",
			wantIssues: []string{"error: P0.1: duplicate task id"},
			wantErrors: true,
		},
		{
			name:       "self dependency",
			tasks:      []Task{{ID: "P0.1", DependsOn: "P0.1"}},
			def:        "make",
			wantIssues: []string{"error: P0.1: task depends on itself"},
			wantErrors: true,
		},
		{
			name:       "unknown dependency is a warning",
			tasks:      []Task{{ID: "P0.1", DependsOn: "P4.2"}},
			def:        "make",
			wantIssues: []string{`warning: P0.1: depends_on references unknown task "P4.2"`},
		},
		{
			name: "cycle",
			tasks: []Task{
				{ID: "P0.1", DependsOn: "P0.2"},
				{ID: "P0.2", DependsOn: "P0.1"},
			},
			def: "make",
			wantIssues: []string{
				"error: P0.1: dependency cycle through P0.2",
				"error: P0.2: dependency cycle through P0.1",
			},
			wantErrors: true,
		},
		{
			name:       "no validation anywhere",
			tasks:      []Task{{ID: "P0.1"}},
			def:        "",
			wantIssues: []string{"warning: P0.1: no validation command"},
		},
		{
			name:       "validation is not valid shell",
			tasks:      []Task{{ID: "P0.1", Validation: `go test "./...`}},
			def:        "make",
			wantIssues: []string{"error: P0.1: validation command does not parse"},
			wantErrors: true,
		},
		{
			name:  "pipelines and conditionals parse",
			tasks: []Task{{ID: "P0.1", Validation: "go vet ./... && go test ./... | tee out.txt"}},
			def:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Lint(tt.tasks, tt.def)
			if len(issues) != len(tt.wantIssues) {
				t.Fatalf("Lint() returned %d issues, want %d: %v", len(issues), len(tt.wantIssues), issues)
			}
			for i, want := range tt.wantIssues {
				if got := issues[i].String(); !strings.HasPrefix(got, want) {
					t.Errorf("issue[%d] = %q, want prefix %q", i, got, want)
				}
			}
			if got := HasErrors(issues); got != tt.wantErrors {
				t.Errorf("HasErrors() = %v, want %v", got, tt.wantErrors)
			}
		})
	}
}
