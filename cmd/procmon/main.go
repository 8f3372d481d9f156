//go:build linux

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/procmon/pkg/config"
	"github.com/ja7ad/procmon/pkg/logger"
	"github.com/ja7ad/procmon/pkg/system"
	"github.com/ja7ad/procmon/pkg/system/proc"
	"github.com/ja7ad/procmon/pkg/system/util"
)

func main() {
	cfg := config.Load()

	root := &cobra.Command{
		Use:   "procmon",
		Short: "Live process monitor for Linux",
		Long: `The procmon tool samples /proc at a fixed interval and reports system-wide
CPU and memory utilization, uptime, process counts and the processes using
the most memory.

The first CPU reading covers the time since boot; --warmup ticks are sampled
but not printed so that the figures shown are interval rates.

Examples:
  procmon
  procmon -n 5 --samples 3 -o json
  procmon --proc-root /host/proc --os-release /host/etc/os-release -o yaml`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, os.Stdout)
		},
	}

	root.Flags().StringVar(&cfg.ProcRoot, "proc-root", cfg.ProcRoot, "proc filesystem root")
	root.Flags().StringVar(&cfg.OSRelease, "os-release", cfg.OSRelease, "os-release record")
	root.Flags().StringVar(&cfg.Passwd, "passwd", cfg.Passwd, "account table used to resolve user names")
	root.Flags().Int64Var(&cfg.ClockTick, "clk-tck", cfg.ClockTick, "clock ticks per second")
	root.Flags().DurationVarP(&cfg.Interval, "interval", "i", cfg.Interval, "refresh interval (e.g. 1s, 500ms)")
	root.Flags().IntVarP(&cfg.Samples, "samples", "s", cfg.Samples, "number of ticks to print (0 = run until Ctrl-C)")
	root.Flags().IntVar(&cfg.Warmup, "warmup", cfg.Warmup, "number of initial ticks to sample without printing")
	root.Flags().IntVarP(&cfg.Top, "top", "n", cfg.Top, "number of processes to show (0 = all)")
	root.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "output format: table|json|yaml|csv")
	root.Flags().Float64Var(&cfg.EMA, "ema", cfg.EMA, "EMA alpha for system CPU smoothing [0..1], 0 disables")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	root.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text|json")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be > 0")
	}
	if cfg.EMA < 0 || cfg.EMA > 1 {
		return fmt.Errorf("ema must be in [0,1]")
	}
	if cfg.Top < 0 || cfg.Samples < 0 || cfg.Warmup < 0 {
		return fmt.Errorf("top, samples and warmup must be >= 0")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	r, err := newRenderer(cfg.Output, out, cfg.Top)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Close(); err != nil {
			log.Error("flush output", "error", err)
		}
	}()

	parser := proc.New(
		proc.WithRoot(cfg.ProcRoot),
		proc.WithOSRelease(cfg.OSRelease),
		proc.WithPasswd(cfg.Passwd),
		proc.WithClockTicks(cfg.ClockTick),
		proc.WithLogger(log),
	)
	sys := system.New(parser)
	log.Debug("sampler ready", "parser_root", cfg.ProcRoot, "clk_tck", parser.ClockTicks(),
		"interval", cfg.Interval, "output", cfg.Output)

	if r.Live() {
		restore := enableSingleView()
		defer restore()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ema *util.EMA
	if cfg.EMA > 0 {
		ema = util.NewEMA(cfg.EMA)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	tick, printed := 0, 0
	for {
		snap := sys.Snapshot()
		tick++

		if tick > cfg.Warmup {
			if ema != nil {
				snap.CPU = ema.Next(snap.CPU)
			}
			if err := r.Render(time.Now(), snap); err != nil {
				return fmt.Errorf("render tick %d: %w", tick, err)
			}
			printed++
			if cfg.Samples > 0 && printed >= cfg.Samples {
				return nil
			}
		} else {
			log.Debug("warmup tick", "tick", tick, "cpu", snap.CPU, "processes", len(snap.Processes))
		}

		select {
		case <-ctx.Done():
			log.Info("interrupted", "ticks", tick)
			return nil
		case <-ticker.C:
		}
	}
}
