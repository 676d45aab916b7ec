package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/genricoloni/remotectl/internal/config"
	"github.com/genricoloni/remotectl/internal/display"
	"github.com/genricoloni/remotectl/internal/distributor"
	"github.com/genricoloni/remotectl/internal/domain"
	"github.com/genricoloni/remotectl/internal/engine"
	"github.com/genricoloni/remotectl/internal/mpris"
	"github.com/genricoloni/remotectl/internal/playback"
	"github.com/genricoloni/remotectl/internal/view"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const stopTimeout = 5 * time.Second

// Flags are the parsed command line flags
type Flags struct {
	config.Options
	Verbose bool
}

// AppOptions is the dependency graph of the remote, minus the flags
// (supplied by the caller) and the terminal input.
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		func(f Flags) config.Options { return f.Options },
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		fx.Annotate(mpris.NewMonitor, fx.As(new(domain.Monitor))),
		fx.Annotate(mpris.NewCommander, fx.As(fx.Self()), fx.As(new(domain.CommandClient))),
		fx.Annotate(distributor.NewHub, fx.As(fx.Self()), fx.As(new(domain.StatusDistributor))),
		fx.Annotate(view.NewLogView, fx.As(new(domain.ModeView)), fx.As(new(domain.MediaView))),
		playback.NewController,
		display.NewResolver,
		engine.NewEngine,
	),
	fx.Invoke(registerHooks),
)

func main() {
	app := &cli.App{
		Name:  "remotectl",
		Usage: "remote control for MPRIS media players",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "player",
				Aliases: []string{"p"},
				Usage:   "MPRIS player to control (e.g. vlc), any player when empty",
			},
			&cli.StringFlag{
				Name:  "seek",
				Usage: "seek increment, in seconds or as a duration (15s, 1m)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	flags := Flags{
		Options: config.Options{
			ConfigFile: c.String("config"),
			Player:     c.String("player"),
			Seek:       c.String("seek"),
		},
		Verbose: c.Bool("verbose"),
	}

	app := fx.New(
		fx.Supply(flags),
		AppOptions,
		fx.Invoke(registerInput),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}

	// Wait for a signal or a quit from the terminal
	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	return app.Stop(stopCtx)
}

// newLogger creates a new zap logger instance
func newLogger(f Flags) (*zap.Logger, error) {
	if f.Verbose {
		return zap.NewDevelopment()
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

type hookParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.Logger
	Monitor   domain.Monitor
	Commander *mpris.Commander
	Hub       *distributor.Hub
	Engine    *engine.Engine
}

// registerHooks sets up application lifecycle hooks
func registerHooks(p hookParams) {
	var (
		cancel context.CancelFunc
		wg     sync.WaitGroup
	)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Consumers subscribe before the monitor emits its first snapshot
			if err := p.Commander.Start(ctx); err != nil {
				return err
			}
			if err := p.Engine.Start(ctx); err != nil {
				return err
			}

			// Background workers outlive the start context
			runCtx, runCancel := context.WithCancel(context.Background())
			cancel = runCancel

			wg.Add(2)
			go func() {
				defer wg.Done()
				p.Hub.Run(runCtx, p.Monitor.Events())
			}()
			go func() {
				defer wg.Done()
				err := p.Monitor.Start(runCtx)
				if err != nil && !errors.Is(err, context.Canceled) {
					p.Logger.Error("Monitor exited", zap.Error(err))
				}
			}()

			p.Logger.Info("Remote started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("Shutting down")

			err := p.Engine.Stop(ctx)
			err = multierr.Append(err, p.Commander.Stop(ctx))
			err = multierr.Append(err, p.Monitor.Stop(ctx))

			if cancel != nil {
				cancel()
			}
			wg.Wait()
			return err
		},
	})
}
