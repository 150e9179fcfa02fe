// Package orchestrator drives the agent through planning, build and
// validation threads against the implementation plan.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/marcpiechura/ralph-wiggum/internal/agent"
	"github.com/marcpiechura/ralph-wiggum/internal/config"
	"github.com/marcpiechura/ralph-wiggum/internal/display"
	"github.com/marcpiechura/ralph-wiggum/internal/logging"
	"github.com/marcpiechura/ralph-wiggum/internal/plan"
	"github.com/marcpiechura/ralph-wiggum/internal/prompts"
	"github.com/marcpiechura/ralph-wiggum/internal/workspace"
)

// Runner starts one agent thread. *agent.Client implements it.
type Runner interface {
	Run(ctx context.Context, prompt string, opts agent.Options) (*agent.Stream, error)
}

// Orchestrator runs the plan, build and validation phases for one project.
type Orchestrator struct {
	cfg     config.Config
	runner  Runner
	store   *plan.Store
	display *display.Display
	log     *logging.Logger

	coordinatorThreadID string
}

// New creates an orchestrator. A nil logger discards log records.
func New(cfg config.Config, runner Runner, d *display.Display, log *logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.Discard()
	}
	return &Orchestrator{
		cfg:     cfg,
		runner:  runner,
		store:   plan.NewStore(cfg.PlanPath()),
		display: d,
		log:     log,
	}
}

// Store returns the plan store the orchestrator reads.
func (o *Orchestrator) Store() *plan.Store {
	return o.store
}

// Run executes mode while holding the project's run lock. Only run-ending
// problems (agent cannot launch, plan unreadable, lock held) are returned as
// errors; a build loop that stops on failures still returns nil.
func (o *Orchestrator) Run(ctx context.Context, mode Mode) error {
	if !mode.IsValid() {
		return fmt.Errorf("unknown mode %q", mode)
	}

	lock := plan.NewLock(workspace.LockPath(o.cfg.ProjectDir))
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	o.display.Header(mode.String(), o.cfg.ProjectDir)
	o.log.Info("run started", "mode", mode, "project", o.cfg.ProjectDir)

	if mode == ModePlan || mode == ModeAuto {
		if _, err := o.Plan(ctx); err != nil {
			return err
		}
		if mode == ModePlan {
			o.display.Complete()
			return nil
		}
	}

	build, err := o.Build(ctx)
	if err != nil {
		return err
	}
	if build.Outcome == OutcomeInterrupted {
		o.log.Info("run interrupted")
		return nil
	}

	if _, err := o.Validate(ctx); err != nil {
		return err
	}

	o.display.Complete()
	o.log.Info("run finished", "outcome", build.Outcome, "iterations", build.Iterations)
	return nil
}

// Plan runs the planning thread and reports what it produced.
func (o *Orchestrator) Plan(ctx context.Context) (ThreadResult, error) {
	log := o.log.WithPhase("plan")
	o.display.Phase("Planning Phase")

	prompt, err := o.render(prompts.Plan, prompts.PlanData{
		SpecsDir:          o.cfg.SpecsDir,
		PlanFile:          o.cfg.PlanFile,
		ValidationCommand: o.cfg.ValidationCommand,
	})
	if err != nil {
		return ThreadResult{}, err
	}

	result, err := o.runThread(ctx, prompt, log)
	if err != nil {
		return result, err
	}
	o.coordinatorThreadID = result.ThreadID

	if !o.store.Exists() {
		o.display.Warning("Plan file not created")
		log.Warn("plan file missing after planning thread", "path", o.store.Path)
		return result, nil
	}

	tasks, err := o.store.Tasks()
	if err != nil {
		return result, err
	}
	o.display.Success(fmt.Sprintf("Plan created with %d tasks", len(tasks)))
	for _, issue := range plan.Lint(tasks, o.cfg.ValidationCommand) {
		o.display.Warning(issue.String())
		log.Warn("plan lint", "task", issue.TaskID, "severity", issue.Severity, "message", issue.Message)
	}
	return result, nil
}

// Validate runs the final validation thread.
func (o *Orchestrator) Validate(ctx context.Context) (ValidationResult, error) {
	log := o.log.WithPhase("validate")
	o.display.Phase("Validation Phase")

	prompt, err := o.render(prompts.Validate, prompts.ValidationData{
		PlanFile:          o.cfg.PlanFile,
		ValidationCommand: o.cfg.ValidationCommand,
		CompletionSignal:  o.cfg.CompletionSignal,
	})
	if err != nil {
		return ValidationResult{}, err
	}

	result, err := o.runThread(ctx, prompt, log)
	if err != nil {
		return ValidationResult{ThreadResult: result}, err
	}

	v := ValidationResult{
		ThreadResult: result,
		Complete:     strings.Contains(result.Result, o.cfg.CompletionSignal),
	}
	if v.Complete {
		o.display.Success("Validation complete!")
	} else {
		o.display.Warning("Validation may not be complete")
	}
	log.Info("validation finished", "complete", v.Complete)
	return v, nil
}

// render fills a prompt template, honoring the project's overrides.
func (o *Orchestrator) render(name string, data any) (string, error) {
	return prompts.Render(workspace.PromptsDir(o.cfg.ProjectDir), name, data)
}

// CoordinatorThreadID returns the id of the planning thread, if one ran.
func (o *Orchestrator) CoordinatorThreadID() string {
	return o.coordinatorThreadID
}
