package plan

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultPriority is assigned to tasks whose id carries no readable priority.
const DefaultPriority = 99

// Task is one checklist entry of the implementation plan.
type Task struct {
	ID             string
	Description    string
	Status         Status
	Scope          string
	Validation     string
	AssignedThread string
	DependsOn      string
}

var (
	priorityPattern = regexp.MustCompile(`^P(\d+)`)
	singleIDPattern = regexp.MustCompile(`^(P\d+\.\d+)\s*(?:\(.*\))?$`)
)

// Priority returns the numeric priority encoded in the task id (P0 before P1).
func (t Task) Priority() int {
	m := priorityPattern.FindStringSubmatch(t.ID)
	if m == nil {
		return DefaultPriority
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultPriority
	}
	return n
}

// ValidationOr returns the task's validation command, or def when the task has none.
func (t Task) ValidationOr(def string) string {
	if t.Validation != "" {
		return t.Validation
	}
	return def
}

// IsComplete reports whether the task is done.
func (t Task) IsComplete() bool {
	return t.Status == StatusCompleted
}

// ListIncomplete returns the tasks that have not been started, in document order.
// In-progress and blocked tasks are not included.
func ListIncomplete(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Status == StatusNotStarted {
			out = append(out, t)
		}
	}
	return out
}

// CompletedIDs returns the set of ids whose task is completed.
func CompletedIDs(tasks []Task) map[string]bool {
	done := make(map[string]bool)
	for _, t := range tasks {
		if t.IsComplete() {
			done[t.ID] = true
		}
	}
	return done
}

// Find returns the first task with the given id.
func Find(tasks []Task, id string) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// normalizeDependsOn reduces a depends_on value to the referenced id.
// Agents tend to write "P0.1 (if applicable)" or "none". Anything else,
// such as a list of ids, is kept as written and never counts as completed.
func normalizeDependsOn(value string) string {
	value = strings.TrimSpace(value)
	if m := singleIDPattern.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	switch strings.ToLower(value) {
	case "", "none", "-", "n/a", "na":
		return ""
	}
	return value
}
