package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/popover/internal/config"
	"github.com/vango-dev/popover/internal/errors"
	"github.com/vango-dev/popover/pkg/live"
)

type serveFlags struct {
	addr      string
	placement string
	arrowSize int
	metrics   bool
	open      bool
}

func serveCmd(load func() (*config.Config, error)) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live web demo",
		Long: `Serve a page with a row of triggers sharing one popover.

Each browser tab gets its own session over a websocket. The server
computes positions from the geometry the browser reports.

Examples:
  popover serve
  popover serve --addr=:9000 --placement=top-start
  popover serve --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&flags.addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().StringVarP(&flags.placement, "placement", "p", "", "Popover placement, e.g. bottom-start")
	cmd.Flags().IntVar(&flags.arrowSize, "arrow-size", 0, "Arrow size in pixels")
	cmd.Flags().BoolVar(&flags.metrics, "metrics", false, "Serve Prometheus metrics")
	cmd.Flags().BoolVar(&flags.open, "open", false, "Start with the popover open")

	return cmd
}

// apply copies the flags the user set over the file config.
func (f serveFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = f.addr
	}
	if cmd.Flags().Changed("placement") {
		cfg.Popover.Placement = f.placement
	}
	if cmd.Flags().Changed("arrow-size") {
		cfg.Popover.ArrowSize = f.arrowSize
	}
	if cmd.Flags().Changed("metrics") {
		cfg.Server.Metrics = f.metrics
	}
	if cmd.Flags().Changed("open") {
		cfg.Popover.Open = f.open
	}
}

// liveConfig translates the file config into server options.
func liveConfig(cfg *config.Config) *live.Config {
	lc := live.DefaultConfig()
	lc.Triggers = cfg.Popover.Triggers
	lc.Positioning = cfg.Positioning()
	lc.Open = cfg.Popover.Open
	lc.FrameTimeout = cfg.FrameTimeout()
	lc.ReadLimit = cfg.Server.ReadLimit
	lc.MetricsPath = cfg.Server.MetricsPath
	lc.Logger = cfg.Log.Logger(os.Stderr)

	if cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		lc.Registry = reg
	}
	return lc
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lc := liveConfig(cfg)
	srv := live.New(lc)

	success("Serving popover on http://%s", cfg.Server.Addr)
	if path := cfg.Path(); path != "" {
		info("config: %s", path)
	}
	if lc.Registry != nil {
		info("metrics: http://%s%s", cfg.Server.Addr, lc.MetricsPath)
	}

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		return errors.New("E140").
			WithDetail("Listening on " + cfg.Server.Addr + " failed.").
			Wrap(err)
	}
	return nil
}
