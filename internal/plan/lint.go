package plan

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Severity classifies a lint issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a problem found in a plan document.
type Issue struct {
	TaskID   string
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	if i.TaskID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.TaskID, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Lint checks a parsed plan for mistakes the loop would otherwise trip over:
// duplicate ids, dangling or circular dependencies, and validation commands
// that are not valid shell. defaultValidation is used for tasks without one.
func Lint(tasks []Task, defaultValidation string) []Issue {
	var issues []Issue

	seen := make(map[string]bool)
	byID := make(map[string]Task)
	for _, t := range tasks {
		if seen[t.ID] {
			issues = append(issues, Issue{t.ID, SeverityError, "duplicate task id"})
			continue
		}
		seen[t.ID] = true
		byID[t.ID] = t
	}

	for _, t := range tasks {
		switch dep := t.DependsOn; {
		case dep == "":
		case dep == t.ID:
			issues = append(issues, Issue{t.ID, SeverityError, "task depends on itself"})
		case !seen[dep]:
			issues = append(issues, Issue{t.ID, SeverityWarning, fmt.Sprintf("depends_on references unknown task %q", dep)})
		case inCycle(t.ID, byID):
			issues = append(issues, Issue{t.ID, SeverityError, fmt.Sprintf("dependency cycle through %s", dep)})
		}

		cmd := t.ValidationOr(defaultValidation)
		if strings.TrimSpace(cmd) == "" {
			issues = append(issues, Issue{t.ID, SeverityWarning, "no validation command"})
			continue
		}
		if err := checkShell(cmd); err != nil {
			issues = append(issues, Issue{t.ID, SeverityError, fmt.Sprintf("validation command does not parse: %v", err)})
		}
	}

	return issues
}

// inCycle follows the depends_on chain from id and reports whether it returns to id.
func inCycle(id string, byID map[string]Task) bool {
	visited := make(map[string]bool)
	cur := byID[id].DependsOn
	for cur != "" && !visited[cur] {
		if cur == id {
			return true
		}
		visited[cur] = true
		next, ok := byID[cur]
		if !ok {
			return false
		}
		cur = next.DependsOn
	}
	return false
}

func checkShell(cmd string) error {
	_, err := syntax.NewParser().Parse(strings.NewReader(cmd), "")
	return err
}
