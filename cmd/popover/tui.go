package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vango-dev/popover/internal/config"
	"github.com/vango-dev/popover/internal/errors"
	"github.com/vango-dev/popover/pkg/tui"
)

func tuiCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		placement string
		open      bool
		inline    bool
		logFile   string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal demo",
		Long: `Run the popover in the terminal.

Tab and shift+tab move focus, enter opens or closes the focused
trigger, esc closes the popover and q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("placement") {
				cfg.Popover.Placement = placement
			}
			if cmd.Flags().Changed("open") {
				cfg.Popover.Open = open
			}
			if inline {
				cfg.TUI.AltScreen = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, closeLog, err := tuiLogger(cfg, logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			return runTUI(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&placement, "placement", "p", "", "Popover placement, e.g. top-end")
	cmd.Flags().BoolVar(&open, "open", false, "Start with the popover open")
	cmd.Flags().BoolVar(&inline, "inline", false, "Render inline instead of the alternate screen")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file (logs are discarded otherwise)")

	return cmd
}

// tuiLogger logs to path, or nowhere. The terminal belongs to the program.
func tuiLogger(cfg *config.Config, path string) (*slog.Logger, func(), error) {
	if path == "" {
		return cfg.Log.Logger(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return cfg.Log.Logger(f), func() { f.Close() }, nil
}

func runTUI(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []tea.ProgramOption
	if cfg.TUI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	err := tui.Run(ctx, tui.Config{
		Triggers:    cfg.Popover.Triggers,
		Positioning: cfg.Positioning(),
		Open:        cfg.Popover.Open,
		FPS:         cfg.TUI.FPS,
		Logger:      logger,
	}, opts...)
	if err != nil && ctx.Err() == nil {
		return errors.New("E141").Wrap(err)
	}
	return nil
}
