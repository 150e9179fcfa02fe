package plan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store reads and edits the plan document on disk. It keeps no cache: every
// query re-reads the file, since the agent edits it between iterations.
type Store struct {
	Path string
}

// NewStore creates a store for the plan file at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Exists reports whether the plan file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Read returns the plan text. A missing file reads as an empty plan.
func (s *Store) Read() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read plan: %w", err)
	}
	return string(data), nil
}

// Tasks parses the plan file. A missing file yields no tasks and no error.
func (s *Store) Tasks() ([]Task, error) {
	text, err := s.Read()
	if err != nil {
		return nil, err
	}
	return Parse(text), nil
}

// Incomplete returns the not-started tasks of the plan file.
func (s *Store) Incomplete() ([]Task, error) {
	tasks, err := s.Tasks()
	if err != nil {
		return nil, err
	}
	return ListIncomplete(tasks), nil
}

// UpdateStatus rewrites one task's status in place on disk.
func (s *Store) UpdateStatus(id string, status Status, threadURL string) error {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}

	text := string(data)
	updated, err := UpdateStatus(text, id, status, threadURL)
	if err != nil {
		return err
	}
	if updated == text {
		return nil
	}
	return s.write(updated)
}

// write replaces the plan file atomically (temp file + rename) and keeps its mode.
func (s *Store) write(text string) error {
	mode := fs.FileMode(0644)
	if info, err := os.Stat(s.Path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
