package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// CommandContext is the function used to create agent processes.
// Tests replace it to run a stand-in program.
var CommandContext = exec.CommandContext

// ErrAgentNotFound is returned when the agent executable cannot be started
// because it does not exist.
var ErrAgentNotFound = errors.New("agent executable not found")

// Options configures one agent run.
type Options struct {
	// WorkDir is the directory the agent runs in (the project root).
	WorkDir string
	// AllowAll skips the agent's per-tool permission prompts.
	AllowAll bool
}

// Client launches the agent CLI in streaming execute mode.
type Client struct {
	Binary string
	// Stderr receives the agent's diagnostic output. Defaults to os.Stderr.
	Stderr io.Writer
}

// NewClient creates a client for the configured binary ("" means amp).
func NewClient(binary string) *Client {
	return &Client{
		Binary: ResolveBinary(binary),
		Stderr: os.Stderr,
	}
}

// Args returns the command line arguments for a run.
func (c *Client) Args(opts Options) []string {
	args := []string{"--execute", "--stream-json"}
	if opts.AllowAll {
		args = append(args, "--dangerously-allow-all")
	}
	return args
}

// Run starts the agent with prompt on stdin and returns its message stream.
// The stream must be consumed until Next returns false (or closed) so the
// process is reaped.
func (c *Client) Run(ctx context.Context, prompt string, opts Options) (*Stream, error) {
	cmd := CommandContext(ctx, c.Binary, c.Args(opts)...)
	cmd.Dir = opts.WorkDir
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, NotFoundError(c.Binary)
		}
		return nil, fmt.Errorf("failed to start %s: %w", c.Binary, err)
	}

	return NewStream(stdout, func() error {
		return exitError(c.Binary, cmd.Wait())
	}), nil
}

// ExitError reports that the agent process exited unsuccessfully.
type ExitError struct {
	Binary string
	Code   int
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("%s was terminated by a signal", e.Binary)
	}
	return fmt.Sprintf("%s exited with code %d", e.Binary, e.Code)
}

func exitError(binary string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Binary: binary, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed waiting for %s: %w", binary, err)
}

// NotFoundError returns a helpful error when the agent binary is missing.
func NotFoundError(binary string) error {
	return fmt.Errorf(`%w: %s

Install amp and make sure it is on your PATH:
  npm install -g @sourcegraph/amp

ralph also looks in ~/.local/bin, ~/.amp/bin and /usr/local/bin.

Alternatively, set the full path in .ralph/config.yaml:
  agent:
    binary: /path/to/amp`, ErrAgentNotFound, binary)
}
