package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/marcpiechura/ralph-wiggum/internal/plan"
)

//go:embed templates/*.md
var embeddedPrompts embed.FS

// Prompt names, also the file names (without .md) under .ralph/prompts/.
const (
	Plan        = "plan"
	Build       = "build"
	Validate    = "validate"
	WorkPackage = "workpackage"
)

// Names returns every prompt name.
func Names() []string {
	return []string{Plan, Build, Validate, WorkPackage}
}

// Get returns the embedded prompt template
func Get(name string) (string, error) {
	if !strings.HasSuffix(name, ".md") {
		name = name + ".md"
	}

	content, err := embeddedPrompts.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("prompt %s not found: %w", name, err)
	}
	return string(content), nil
}

// GetForWorkspace returns the prompt template, preferring an override in
// promptsDir (.ralph/prompts/) over the embedded one
func GetForWorkspace(promptsDir, name string) (string, error) {
	if !strings.HasSuffix(name, ".md") {
		name = name + ".md"
	}

	localPath := filepath.Join(promptsDir, name)
	if content, err := os.ReadFile(localPath); err == nil {
		return string(content), nil
	}

	return Get(name)
}

var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"join":  strings.Join,
}

// Render executes the named template with data. Overrides are looked up
// in promptsDir.
func Render(promptsDir, name string, data any) (string, error) {
	text, err := GetForWorkspace(promptsDir, name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// PlanData fills the planning prompt.
type PlanData struct {
	SpecsDir          string
	PlanFile          string
	ValidationCommand string
}

// BuildData fills the single-task build prompt.
type BuildData struct {
	Task           plan.Task
	PlanFile       string
	Validation     string
	CoordinatorURL string
	CommitScope    string
	// DependencyPending is set when the task runs before its dependency is
	// completed (force_blocked).
	DependencyPending bool
}

// NewBuildData prepares build prompt data for task, falling back to
// defaultValidation when the task has none.
func NewBuildData(task plan.Task, planFile, defaultValidation, coordinatorURL string) BuildData {
	return BuildData{
		Task:           task,
		PlanFile:       planFile,
		Validation:     task.ValidationOr(defaultValidation),
		CoordinatorURL: coordinatorURL,
		CommitScope:    CommitScope(task.Scope),
	}
}

// ValidationData fills the final validation prompt.
type ValidationData struct {
	PlanFile          string
	ValidationCommand string
	CompletionSignal  string
}

// WorkPackageData fills the batched build prompt.
type WorkPackageData struct {
	Package     plan.WorkPackage
	PlanFile    string
	Validation  string
	CommitScope string
}

// NewWorkPackageData prepares prompt data for a work package.
func NewWorkPackageData(pkg plan.WorkPackage, planFile, defaultValidation string) WorkPackageData {
	validation := pkg.Validation
	if validation == "" {
		validation = defaultValidation
	}
	return WorkPackageData{
		Package:     pkg,
		PlanFile:    planFile,
		Validation:  validation,
		CommitScope: CommitScope(pkg.Scope),
	}
}

// CommitScope derives a conventional-commit scope from a task scope: its last
// literal path segment, or "core".
func CommitScope(scope string) string {
	segments := strings.Split(path.Clean(strings.TrimSpace(scope)), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		s := segments[i]
		if s == "" || s == "." || s == ".." || strings.ContainsAny(s, "*?[{") {
			continue
		}
		return s
	}
	return "core"
}
