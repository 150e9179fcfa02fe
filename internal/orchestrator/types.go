package orchestrator

import (
	"fmt"
	"time"
)

// Mode selects which phases a run executes.
type Mode string

const (
	// ModePlan runs only the planning thread.
	ModePlan Mode = "plan"
	// ModeBuild runs the build loop followed by validation.
	ModeBuild Mode = "build"
	// ModeAuto plans, builds and validates.
	ModeAuto Mode = "auto"
)

// IsValid checks if a mode is valid
func (m Mode) IsValid() bool {
	for _, valid := range AllModes() {
		if m == valid {
			return true
		}
	}
	return false
}

// AllModes returns all valid modes
func AllModes() []Mode {
	return []Mode{ModePlan, ModeBuild, ModeAuto}
}

// String returns the string representation of the mode
func (m Mode) String() string {
	return string(m)
}

// ParseMode converts a command line word into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown mode %q (must be one of %v)", s, AllModes())
	}
	return m, nil
}

// Outcome is how a build loop ended.
type Outcome string

const (
	// OutcomeAllComplete means no not-started tasks remain.
	OutcomeAllComplete Outcome = "all_complete"
	// OutcomeBlocked means every remaining task waits on an unfinished dependency.
	OutcomeBlocked Outcome = "blocked"
	// OutcomeTooManyFailures means the consecutive failure limit was hit.
	OutcomeTooManyFailures Outcome = "too_many_failures"
	// OutcomeMaxIterations means the iteration budget ran out.
	OutcomeMaxIterations Outcome = "max_iterations"
	// OutcomeInterrupted means the run was cancelled between iterations.
	OutcomeInterrupted Outcome = "interrupted"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// ThreadResult describes one finished agent thread.
type ThreadResult struct {
	ThreadID  string
	ThreadURL string
	// Result is the agent's final text, or the failure reason.
	Result  string
	Success bool
	// TasksCompleted lists the plan tasks that became completed during a
	// build thread.
	TasksCompleted []string
	InputTokens    int
	OutputTokens   int
	Duration       time.Duration
}

// BuildResult summarizes a build loop.
type BuildResult struct {
	Outcome             Outcome
	Iterations          int
	ConsecutiveFailures int
	Completed           []string
}

// ValidationResult is the outcome of the validation thread.
type ValidationResult struct {
	ThreadResult
	// Complete is set when the agent printed the completion signal.
	Complete bool
}
