package display

import (
	"fmt"

	"github.com/fatih/color"
)

// Status symbols
const (
	SymbolSuccess    = "✓"
	SymbolError      = "✗"
	SymbolWarning    = "⚠"
	SymbolPending    = "○"
	SymbolInProgress = "◐"
	SymbolBlocked    = "⊘"
	SectionBreak     = "━"
)

// Gutters mark agent output so it reads apart from orchestrator lines
const (
	GutterAgent = "│"
	GutterDot   = "·"
	IndentAgent = "  "
)

// Theme holds all color functions for consistent styling
type Theme struct {
	// Orchestrator (prominent)
	RalphBorder func(a ...interface{}) string
	RalphLabel  func(a ...interface{}) string
	RalphText   func(a ...interface{}) string

	// Agent output (subdued)
	AgentGutter func(a ...interface{}) string
	AgentText   func(a ...interface{}) string
	AgentTool   func(a ...interface{}) string

	// Status indicators
	Success func(a ...interface{}) string
	Error   func(a ...interface{}) string
	Warning func(a ...interface{}) string
	Info    func(a ...interface{}) string

	// Structural elements
	Bold      func(a ...interface{}) string
	Dim       func(a ...interface{}) string
	Separator func(a ...interface{}) string
}

// DefaultTheme creates the default color theme
func DefaultTheme() *Theme {
	return &Theme{
		RalphBorder: color.New(color.FgCyan).SprintFunc(),
		RalphLabel:  color.New(color.FgCyan, color.Bold).SprintFunc(),
		RalphText:   color.New(color.FgWhite).SprintFunc(),

		AgentGutter: color.New(color.FgHiBlack).SprintFunc(),
		AgentText:   color.New(color.FgWhite).SprintFunc(),
		AgentTool:   color.New(color.FgMagenta).SprintFunc(),

		Success: color.New(color.FgGreen).SprintFunc(),
		Error:   color.New(color.FgRed).SprintFunc(),
		Warning: color.New(color.FgYellow).SprintFunc(),
		Info:    color.New(color.FgCyan).SprintFunc(),

		Bold:      color.New(color.Bold).SprintFunc(),
		Dim:       color.New(color.FgHiBlack).SprintFunc(),
		Separator: color.New(color.FgCyan).SprintFunc(),
	}
}

// NoColorTheme creates a theme without colors (for --no-color or non-TTY output)
func NoColorTheme() *Theme {
	identity := func(a ...interface{}) string {
		return fmt.Sprint(a...)
	}
	return &Theme{
		RalphBorder: identity,
		RalphLabel:  identity,
		RalphText:   identity,
		AgentGutter: identity,
		AgentText:   identity,
		AgentTool:   identity,
		Success:     identity,
		Error:       identity,
		Warning:     identity,
		Info:        identity,
		Bold:        identity,
		Dim:         identity,
		Separator:   identity,
	}
}
