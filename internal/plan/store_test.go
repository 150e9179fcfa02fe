package plan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "IMPLEMENTATION_PLAN.md"))

	if store.Exists() {
		t.Error("Exists() = true for missing file")
	}
	tasks, err := store.Tasks()
	if err != nil {
		t.Fatalf("Tasks() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Tasks() = %v, want empty", tasks)
	}
	incomplete, err := store.Incomplete()
	if err != nil {
		t.Fatalf("Incomplete() error = %v", err)
	}
	if len(incomplete) != 0 {
		t.Errorf("Incomplete() = %v, want empty", incomplete)
	}

	err = store.UpdateStatus("P0.1", StatusCompleted, "")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("UpdateStatus() error = %v, want not-exist", err)
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IMPLEMENTATION_PLAN.md")
	if err := os.WriteFile(path, []byte(samplePlan), 0600); err != nil {
		t.Fatal(err)
	}
	store := NewStore(path)

	if err := store.UpdateStatus("P0.2", StatusCompleted, "https://ampcode.com/threads/T-2"); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	incomplete, err := store.Incomplete()
	if err != nil {
		t.Fatalf("Incomplete() error = %v", err)
	}
	if len(incomplete) != 0 {
		t.Errorf("Incomplete() = %v, want empty", incomplete)
	}

	tasks, _ := store.Tasks()
	task, _ := Find(tasks, "P0.2")
	if task.AssignedThread != "https://ampcode.com/threads/T-2" {
		t.Errorf("AssignedThread = %q", task.AssignedThread)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the plan (temp file left behind?)", len(entries))
	}
}

func TestStore_UpdateStatusUnknownID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.md")
	if err := os.WriteFile(path, []byte(samplePlan), 0644); err != nil {
		t.Fatal(err)
	}

	err := NewStore(path).UpdateStatus("P5.5", StatusCompleted, "")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("UpdateStatus() error = %v, want ErrTaskNotFound", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != samplePlan {
		t.Error("plan file changed for unknown id")
	}
}
