package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/lyrical/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Flags are the command line options
type Flags struct {
	ConfigPath string
	Headless   bool
	Verbose    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := Flags{}
	cmd := &cobra.Command{
		Use:          "lyrical",
		Short:        "Desktop lyrics overlay with a tray menu",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), flags)
		},
	}
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", config.DefaultPath(), "path to the YAML config file")
	cmd.Flags().BoolVar(&flags.Headless, "headless", false, "run without the overlay window")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// run starts the application and drives the overlay window on the calling
// goroutine, which must be the main one
func run(ctx context.Context, flags Flags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var window *windowRunner
	app := fx.New(
		fx.Supply(flags),
		AppOptions,
		fx.Populate(&window),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() {
		select {
		case <-app.Wait():
		case <-runCtx.Done():
		}
		cancelRun()
	}()

	runErr := window.Run(runCtx)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		return multierr.Append(runErr, fmt.Errorf("failed to stop: %w", err))
	}
	return runErr
}

// newLogger creates the zap logger. Debug output is enabled by --verbose or
// the configured log level.
func newLogger(flags Flags, cfg *config.AppConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	level := cfg.LogLevel
	if flags.Verbose {
		level = "debug"
	}
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zcfg.Level = lvl
	}
	return zcfg.Build()
}
