// Package display provides unified output formatting for the ralph CLI.
// It visually separates orchestrator messages from the agent's output.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/term"
)

// Display handles all CLI output with visual hierarchy
type Display struct {
	out       io.Writer
	theme     *Theme
	termWidth int
	noColor   bool
	now       func() time.Time
}

// New creates a Display writing to out, with colors only when out is a terminal
func New(out io.Writer, noColor bool) *Display {
	if f, ok := out.(*os.File); !ok || !isTerminal(f) {
		noColor = true
	}
	return NewWithOptions(out, noColor)
}

// NewWithOptions creates a Display writing to out
func NewWithOptions(out io.Writer, noColor bool) *Display {
	d := &Display{
		out:       out,
		termWidth: getTerminalWidth(),
		noColor:   noColor,
		now:       time.Now,
	}
	if noColor {
		d.theme = NoColorTheme()
	} else {
		d.theme = DefaultTheme()
	}
	return d
}

// isTerminal reports whether f is attached to a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// getTerminalWidth returns the terminal width, defaulting to 80
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	if width > 120 {
		return 120
	}
	return width
}

func (d *Display) printf(format string, a ...any) {
	fmt.Fprintf(d.out, format, a...)
}

func (d *Display) println(a ...any) {
	fmt.Fprintln(d.out, a...)
}

// Header prints the run banner
func (d *Display) Header(mode, projectDir string) {
	d.println(d.theme.Bold(fmt.Sprintf("Ralph 2.0 Orchestrator - %s mode", mode)))
	d.printf("Project: %s\n", projectDir)
}

// Phase prints a phase banner such as "=== Build Phase ==="
func (d *Display) Phase(title string) {
	d.printf("\n%s\n", d.theme.RalphLabel("=== "+title+" ==="))
}

// RalphStatus prints a single-line orchestrator status message
func (d *Display) RalphStatus(symbol, message string) {
	timestamp := d.now().Format("[15:04:05]")
	d.printf("%s %s %s\n",
		d.theme.RalphBorder(timestamp),
		symbol,
		d.theme.RalphText(message))
}

// Success prints a success message with green checkmark
func (d *Display) Success(message string) {
	d.RalphStatus(d.theme.Success(SymbolSuccess), message)
}

// Error prints an error message with red X
func (d *Display) Error(message string) {
	d.RalphStatus(d.theme.Error(SymbolError), message)
}

// Warning prints a warning message with yellow triangle
func (d *Display) Warning(message string) {
	d.RalphStatus(d.theme.Warning(SymbolWarning), message)
}

// Info prints an info message with cyan label
func (d *Display) Info(label, message string) {
	d.RalphStatus(d.theme.Info(label+":"), message)
}

// Thread announces the agent thread URL
func (d *Display) Thread(url string) {
	d.Info("Thread", url)
}

// SectionBreak prints a horizontal separator for iteration boundaries
func (d *Display) SectionBreak() {
	d.println(d.theme.Separator(strings.Repeat(SectionBreak, d.termWidth)))
}

// Iteration prints the iteration banner for a task
func (d *Display) Iteration(current, max int, taskID, description string) {
	d.SectionBreak()
	d.printf("Iteration %d/%d: %s\n", current, max, d.theme.Info(taskID))
	if description != "" {
		d.println(d.theme.Dim(Truncate(description, d.termWidth)))
	}
	d.SectionBreak()
}

// AgentText prints agent prose behind a gutter
func (d *Display) AgentText(text string) {
	gutter := d.theme.AgentGutter(GutterAgent)
	for i, line := range d.wrapText(text, d.termWidth-6) {
		if i == 0 {
			d.printf("%s%s %s\n", IndentAgent, gutter, d.theme.AgentText(line))
		} else {
			d.printf("%s%s %s\n", IndentAgent, d.theme.AgentGutter(GutterDot), d.theme.AgentText(line))
		}
	}
}

// ToolUse prints a tool invocation by the agent
func (d *Display) ToolUse(name string) {
	d.printf("%s%s %s\n", IndentAgent, d.theme.AgentGutter(GutterAgent), d.theme.AgentTool("["+name+"]"))
}

// Result prints the condensed agent result
func (d *Display) Result(result string) {
	if summary := Summarize(result); summary != "" {
		d.printf("\n%s %s\n", d.theme.Success(SymbolSuccess), summary)
	}
}

// Tokens prints token usage for a thread
func (d *Display) Tokens(input, output int) {
	d.RalphStatus(d.theme.Dim("Σ"), fmt.Sprintf("Tokens: %d (in: %d, out: %d)", input+output, input, output))
}

// Duration prints execution duration
func (d *Display) Duration(dur time.Duration) {
	d.printf("   Duration: %s\n", dur.Round(time.Second))
}

// Complete prints the final banner
func (d *Display) Complete() {
	d.Phase("Ralph Complete")
}

// TaskLine prints one task row for the status view
func (d *Display) TaskLine(status, id, description, detail string) {
	var symbol string
	switch status {
	case "completed":
		symbol = d.theme.Success(SymbolSuccess)
	case "in_progress":
		symbol = d.theme.Info(SymbolInProgress)
	case "blocked":
		symbol = d.theme.Error(SymbolBlocked)
	default:
		symbol = d.theme.Dim(SymbolPending)
	}
	line := fmt.Sprintf("  %s %s %s", symbol, d.theme.Bold(id), description)
	if detail != "" {
		line += " " + d.theme.Dim(detail)
	}
	d.println(line)
}

// Println writes a plain line
func (d *Display) Println(a ...any) {
	d.println(a...)
}

// Theme returns the current theme for external use
func (d *Display) Theme() *Theme {
	return d.theme
}

// wrapText wraps text to width, keeping at most five lines
func (d *Display) wrapText(text string, width int) []string {
	if width <= 0 {
		width = 80
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+len(word)+1 > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	if len(lines) > 5 {
		lines = lines[:5]
		last := []rune(lines[4])
		if len(last) > width-3 {
			last = last[:width-3]
		}
		lines[4] = string(last) + "..."
	}
	return lines
}

// Summarize condenses an agent result to its first three non-empty lines,
// at most 200 characters, with "..." when anything was cut.
func Summarize(result string) string {
	var lines []string
	for _, l := range strings.Split(result, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	cut := len(lines) > 3
	if cut {
		lines = lines[:3]
	}
	summary := strings.Join(lines, " ")
	if utf8.RuneCountInString(summary) > 200 {
		summary = string([]rune(summary)[:200])
		cut = true
	}
	if cut {
		summary += "..."
	}
	return summary
}

// Truncate cleans text and shortens it to max runes with an ellipsis
func Truncate(s string, max int) string {
	s = CleanText(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}

// CleanText removes newlines and collapses spaces
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
