package plan

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// WorkPackage is a batch of unassigned tasks touching the same area of the code.
// Packages are derived on demand and never written back to the plan.
type WorkPackage struct {
	Tasks      []Task
	Scope      string
	Validation string
}

// IDs returns the ids of the package's tasks.
func (p WorkPackage) IDs() []string {
	ids := make([]string, len(p.Tasks))
	for i, t := range p.Tasks {
		ids[i] = t.ID
	}
	return ids
}

// GroupIntoWorkPackages greedily groups unassigned tasks whose scopes overlap.
// Each package takes the scope and validation of its first task. Tasks that
// already have an assigned thread are skipped.
func GroupIntoWorkPackages(tasks []Task) []WorkPackage {
	var packages []WorkPackage
	grouped := make(map[int]bool)

	for i, t := range tasks {
		if grouped[i] || t.AssignedThread != "" {
			continue
		}
		pkg := WorkPackage{Scope: t.Scope, Validation: t.Validation}
		for j := i; j < len(tasks); j++ {
			other := tasks[j]
			if grouped[j] || other.AssignedThread != "" {
				continue
			}
			if j == i || other.Scope == t.Scope || ScopesOverlap(t.Scope, other.Scope) {
				pkg.Tasks = append(pkg.Tasks, other)
				grouped[j] = true
			}
		}
		packages = append(packages, pkg)
	}
	return packages
}

// ScopesOverlap reports whether two task scopes touch the same files.
// Scopes are slash-separated paths or doublestar globs relative to the project.
// Empty scopes never overlap.
func ScopesOverlap(a, b string) bool {
	a, b = normalizeScope(a), normalizeScope(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	if isGlob(a) || isGlob(b) {
		if isGlob(a) && matchGlob(a, b) {
			return true
		}
		if isGlob(b) && matchGlob(b, a) {
			return true
		}
		baseA, baseB := globBase(a), globBase(b)
		return baseA != "" && baseB != "" && (containsPath(baseA, baseB) || containsPath(baseB, baseA))
	}

	if containsPath(a, b) || containsPath(b, a) {
		return true
	}
	dirA, dirB := path.Dir(a), path.Dir(b)
	return dirA == dirB && dirA != "."
}

func normalizeScope(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`")
	if s == "" {
		return ""
	}
	return path.Clean(strings.TrimPrefix(s, "./"))
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func matchGlob(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// globBase returns the literal directory prefix of a glob ("" for none).
func globBase(s string) string {
	if !isGlob(s) {
		return s
	}
	base, _ := doublestar.SplitPattern(s)
	if base == "." {
		return ""
	}
	return base
}

// containsPath reports whether child lies inside dir at a path boundary.
func containsPath(dir, child string) bool {
	return strings.HasPrefix(child, dir+"/")
}
