package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/marcpiechura/ralph-wiggum/internal/agent"
	"github.com/marcpiechura/ralph-wiggum/internal/display"
	"github.com/marcpiechura/ralph-wiggum/internal/logging"
)

// RunThread runs the agent on prompt and interprets its stream.
func (o *Orchestrator) RunThread(ctx context.Context, prompt string) (ThreadResult, error) {
	return o.runThread(ctx, prompt, o.log)
}

// runThread returns an error only when the agent could not be launched.
// Everything that goes wrong after launch is a failed ThreadResult.
func (o *Orchestrator) runThread(ctx context.Context, prompt string, log *logging.Logger) (ThreadResult, error) {
	start := time.Now()

	// The agent is never killed mid-thread: cancellation is honored between
	// iterations instead.
	stream, err := o.runner.Run(context.WithoutCancel(ctx), prompt, agent.Options{
		WorkDir:  o.cfg.ProjectDir,
		AllowAll: o.cfg.Agent.AllowAll,
	})
	if err != nil {
		log.Error("agent launch failed", "error", err)
		return ThreadResult{}, fmt.Errorf("failed to launch agent: %w", err)
	}

	result := ThreadResult{Success: true}
	for stream.Next() {
		switch m := stream.Message().(type) {
		case *agent.SystemMessage:
			result.ThreadID = m.SessionID
			result.ThreadURL = agent.ThreadURL(o.cfg.Agent.ThreadURLBase, m.SessionID)
			log = log.With("thread_id", m.SessionID)
			if result.ThreadURL != "" {
				o.display.Thread(result.ThreadURL)
			}

		case *agent.AssistantMessage:
			if m.Usage != nil {
				result.InputTokens += m.Usage.InputTokens
				result.OutputTokens += m.Usage.OutputTokens
			}
			if text := m.Text(); text != "" {
				log.Debug("assistant text", "text", display.Truncate(text, 200))
			}
			for _, c := range m.Content {
				switch c := c.(type) {
				case *agent.TextContent:
					if o.cfg.Verbose {
						o.display.AgentText(c.Text)
					}
				case *agent.ToolUseContent:
					if o.cfg.Verbose {
						o.display.ToolUse(c.Name)
					}
					log.Debug("tool use", "tool", c.Name)
				}
			}

		case *agent.ResultMessage:
			if m.IsError {
				result.Success = false
				result.Result = m.ErrorText()
				o.display.Error(result.Result)
			} else {
				result.Result = m.Result
				o.display.Result(m.Result)
			}
		}
	}

	if err := stream.Err(); err != nil {
		log.Warn("agent stream failed", "error", err)
		if result.Success {
			result.Success = false
			result.Result = err.Error()
			o.display.Error(result.Result)
		}
	}

	result.Duration = time.Since(start)
	if o.cfg.Verbose {
		if result.InputTokens+result.OutputTokens > 0 {
			o.display.Tokens(result.InputTokens, result.OutputTokens)
		}
		o.display.Duration(result.Duration)
	}
	log.Info("thread finished",
		"success", result.Success,
		"duration_ms", result.Duration.Milliseconds(),
		"input_tokens", result.InputTokens,
		"output_tokens", result.OutputTokens)
	return result, nil
}
