package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marcpiechura/ralph-wiggum/internal/agent"
	"github.com/marcpiechura/ralph-wiggum/internal/config"
	"github.com/marcpiechura/ralph-wiggum/internal/display"
	"github.com/marcpiechura/ralph-wiggum/internal/logging"
	"github.com/marcpiechura/ralph-wiggum/internal/orchestrator"
	"github.com/marcpiechura/ralph-wiggum/internal/workspace"
)

// runMode loads the configuration and runs the orchestrator in mode.
func runMode(cmd *cobra.Command, mode orchestrator.Mode) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// From here on failures are about the run, not the command line.
	cmd.SilenceUsage = true

	d := newDisplay(cmd, cfg)

	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	logger, err := logging.Open(workspace.LogPath(cfg.ProjectDir), level)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			d.Warning("Received interrupt, finishing current iteration...")
			logger.Warn("interrupt received")
			cancel()
		case <-ctx.Done():
		}
	}()

	client := agent.NewClient(cfg.Agent.Binary)
	client.Stderr = cmd.ErrOrStderr()

	return orchestrator.New(cfg, client, d, logger).Run(ctx, mode)
}

func newDisplay(cmd *cobra.Command, cfg config.Config) *display.Display {
	return display.New(cmd.OutOrStdout(), cfg.NoColor)
}
