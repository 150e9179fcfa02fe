package plan

import "testing"

func TestSelectNext(t *testing.T) {
	tests := []struct {
		name        string
		tasks       []Task
		wantID      string
		wantBlocked bool
	}{
		{
			name:   "nothing left",
			tasks:  []Task{{ID: "P0.1", Status: StatusCompleted}},
			wantID: "",
		},
		{
			name:   "empty plan",
			tasks:  nil,
			wantID: "",
		},
		{
			name: "lowest priority number wins",
			tasks: []Task{
				{ID: "P2.1", Status: StatusNotStarted},
				{ID: "P0.3", Status: StatusNotStarted},
				{ID: "P1.1", Status: StatusNotStarted},
			},
			wantID: "P0.3",
		},
		{
			name: "document order breaks ties",
			tasks: []Task{
				{ID: "P1.9", Status: StatusNotStarted},
				{ID: "P1.1", Status: StatusNotStarted},
			},
			wantID: "P1.9",
		},
		{
			name: "unparseable priority sorts last",
			tasks: []Task{
				{ID: "Q0.1", Status: StatusNotStarted},
				{ID: "P98.1", Status: StatusNotStarted},
			},
			wantID: "P98.1",
		},
		{
			name: "in progress and blocked are not candidates",
			tasks: []Task{
				{ID: "P0.1", Status: StatusInProgress},
				{ID: "P0.2", Status: StatusBlocked},
				{ID: "P1.1", Status: StatusNotStarted},
			},
			wantID: "P1.1",
		},
		{
			name: "dependency on completed task is satisfied",
			tasks: []Task{
				{ID: "P0.1", Status: StatusCompleted},
				{ID: "P0.2", Status: StatusNotStarted, DependsOn: "P0.1"},
			},
			wantID: "P0.2",
		},
		{
			name: "gated task is skipped for an eligible one",
			tasks: []Task{
				{ID: "P0.1", Status: StatusNotStarted, DependsOn: "P0.2"},
				{ID: "P0.2", Status: StatusNotStarted},
			},
			wantID: "P0.2",
		},
		{
			name: "in progress dependency still gates",
			tasks: []Task{
				{ID: "P0.1", Status: StatusInProgress},
				{ID: "P0.2", Status: StatusNotStarted, DependsOn: "P0.1"},
			},
			wantID:      "P0.2",
			wantBlocked: true,
		},
		{
			name: "listed dependencies gate until all are completed",
			tasks: Parse(`- [x] P0.2 b
- [ ] P0.1 a
  - depends_on: P0.9
- [ ] P0.3 c
  - depends_on: P0.2, P0.1
`),
			wantID:      "P0.1",
			wantBlocked: true,
		},
		{
			name: "all gated falls back to first by priority",
			tasks: []Task{
				{ID: "P1.1", Status: StatusNotStarted, DependsOn: "P9.9"},
				{ID: "P0.5", Status: StatusNotStarted, DependsOn: "P1.1"},
			},
			wantID:      "P0.5",
			wantBlocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectNext(tt.tasks)
			gotID := ""
			if got.Task != nil {
				gotID = got.Task.ID
			}
			if gotID != tt.wantID {
				t.Errorf("SelectNext() task = %q, want %q", gotID, tt.wantID)
			}
			if got.Blocked != tt.wantBlocked {
				t.Errorf("SelectNext() blocked = %v, want %v", got.Blocked, tt.wantBlocked)
			}
		})
	}
}

func TestSelectNext_Deterministic(t *testing.T) {
	tasks := Parse(samplePlan + "\n- [ ] P0.3 Another\n- [ ] P0.4 And another\n")
	first := SelectNext(tasks)
	for i := 0; i < 20; i++ {
		got := SelectNext(tasks)
		if got.Task.ID != first.Task.ID {
			t.Fatalf("SelectNext() = %s on run %d, want %s", got.Task.ID, i, first.Task.ID)
		}
	}
}

func TestSelectNext_DoesNotMutateInput(t *testing.T) {
	tasks := []Task{
		{ID: "P2.1", Status: StatusNotStarted},
		{ID: "P0.1", Status: StatusNotStarted},
	}
	SelectNext(tasks)
	if tasks[0].ID != "P2.1" || tasks[1].ID != "P0.1" {
		t.Errorf("input reordered: %v", tasks)
	}
}
