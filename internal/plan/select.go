package plan

import (
	"cmp"
	"slices"
)

// Selection is the outcome of SelectNext.
type Selection struct {
	// Task is nil when no task is left to start.
	Task *Task
	// Blocked is set when Task was chosen only as a fallback: every
	// remaining task depends on one that is not completed.
	Blocked bool
}

// SelectNext picks the next task to work on from the full task list.
//
// Candidates are the not-started tasks, stably ordered by ascending priority
// (document order breaks ties). The first candidate whose dependency is
// empty or completed wins. If every candidate is gated, the first candidate
// is returned with Blocked set.
func SelectNext(tasks []Task) Selection {
	candidates := ListIncomplete(tasks)
	if len(candidates) == 0 {
		return Selection{}
	}

	slices.SortStableFunc(candidates, func(a, b Task) int {
		return cmp.Compare(a.Priority(), b.Priority())
	})

	done := CompletedIDs(tasks)
	for i := range candidates {
		if dep := candidates[i].DependsOn; dep == "" || done[dep] {
			return Selection{Task: &candidates[i]}
		}
	}
	return Selection{Task: &candidates[0], Blocked: true}
}
