package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/marcpiechura/ralph-wiggum/internal/agent"
	"github.com/marcpiechura/ralph-wiggum/internal/plan"
	"github.com/marcpiechura/ralph-wiggum/internal/prompts"
)

// Build runs one agent thread per task until the plan is done, every
// remaining task is blocked, too many threads fail in a row, or the
// iteration budget is spent. The plan is re-read before every decision.
func (o *Orchestrator) Build(ctx context.Context) (BuildResult, error) {
	log := o.log.WithPhase("build")
	o.display.Phase("Build Phase")

	var res BuildResult
	for res.Iterations < o.cfg.MaxIterations {
		if ctx.Err() != nil {
			o.display.Warning("Interrupted, stopping build loop")
			res.Outcome = OutcomeInterrupted
			return res, nil
		}

		before, err := o.store.Tasks()
		if err != nil {
			return res, err
		}
		remaining := plan.ListIncomplete(before)
		if len(remaining) == 0 {
			o.display.Success("All tasks complete!")
			res.Outcome = OutcomeAllComplete
			return res, nil
		}

		sel := plan.SelectNext(before)
		if sel.Blocked {
			if !o.cfg.ForceBlocked {
				o.display.Warning("No available tasks (all blocked by dependencies)")
				log.Warn("all remaining tasks blocked", "remaining", len(remaining))
				res.Outcome = OutcomeBlocked
				return res, nil
			}
			o.display.Warning(fmt.Sprintf("All tasks blocked, forcing %s (depends on %s)", sel.Task.ID, sel.Task.DependsOn))
		}
		task := *sel.Task

		res.Iterations++
		o.display.Iteration(res.Iterations, o.cfg.MaxIterations, task.ID, task.Description)

		data := prompts.NewBuildData(
			task,
			o.cfg.PlanFile,
			o.cfg.ValidationCommand,
			agent.ThreadURL(o.cfg.Agent.ThreadURLBase, o.coordinatorThreadID),
		)
		data.DependencyPending = sel.Blocked
		prompt, err := o.render(prompts.Build, data)
		if err != nil {
			return res, err
		}

		result, err := o.runThread(ctx, prompt, log.With("task", task.ID, "iteration", res.Iterations))
		if err != nil {
			return res, err
		}

		if !result.Success {
			res.ConsecutiveFailures++
			if res.ConsecutiveFailures >= o.cfg.MaxConsecutiveFailures {
				o.display.Error(fmt.Sprintf("Too many consecutive failures (%d). Stopping.", res.ConsecutiveFailures))
				log.Error("too many consecutive failures", "failures", res.ConsecutiveFailures)
				res.Outcome = OutcomeTooManyFailures
				return res, nil
			}
			o.display.Warning(fmt.Sprintf("Failure %d/%d", res.ConsecutiveFailures, o.cfg.MaxConsecutiveFailures))
			continue
		}
		res.ConsecutiveFailures = 0

		after, err := o.store.Tasks()
		if err != nil {
			return res, err
		}
		result.TasksCompleted = newlyCompleted(before, after)
		res.Completed = append(res.Completed, result.TasksCompleted...)
		if len(plan.ListIncomplete(after)) >= len(remaining) {
			o.display.Warning("Task may not have been marked complete")
		}
		if err := o.recordThread(task.ID, after, result.ThreadURL); err != nil {
			return res, err
		}

		if err := sleep(ctx, o.cfg.IterationDelay); err != nil {
			o.display.Warning("Interrupted, stopping build loop")
			res.Outcome = OutcomeInterrupted
			return res, nil
		}
	}

	// The last allowed thread may have finished the plan.
	tasks, err := o.store.Tasks()
	if err != nil {
		return res, err
	}
	if len(plan.ListIncomplete(tasks)) == 0 {
		o.display.Success("All tasks complete!")
		res.Outcome = OutcomeAllComplete
		return res, nil
	}

	o.display.Warning(fmt.Sprintf("Reached max iterations (%d)", o.cfg.MaxIterations))
	res.Outcome = OutcomeMaxIterations
	return res, nil
}

// recordThread fills in assigned_thread for a task the agent completed but
// did not attribute.
func (o *Orchestrator) recordThread(id string, tasks []plan.Task, threadURL string) error {
	if threadURL == "" {
		return nil
	}
	task, ok := plan.Find(tasks, id)
	if !ok || !task.IsComplete() || task.AssignedThread != "" {
		return nil
	}
	return o.store.UpdateStatus(id, plan.StatusCompleted, threadURL)
}

// newlyCompleted returns ids completed in after but not in before.
func newlyCompleted(before, after []plan.Task) []string {
	was := plan.CompletedIDs(before)
	var ids []string
	for _, t := range after {
		if t.IsComplete() && !was[t.ID] {
			ids = append(ids, t.ID)
			was[t.ID] = true
		}
	}
	return ids
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
