package main

import (
	"context"
	"errors"

	"github.com/genricoloni/lyrical/internal/config"
	"github.com/genricoloni/lyrical/internal/display"
	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/genricoloni/lyrical/internal/engine"
	"github.com/genricoloni/lyrical/internal/executor"
	"github.com/genricoloni/lyrical/internal/fetcher"
	"github.com/genricoloni/lyrical/internal/hook"
	"github.com/genricoloni/lyrical/internal/host"
	"github.com/genricoloni/lyrical/internal/metrics"
	"github.com/genricoloni/lyrical/internal/monitor"
	"github.com/genricoloni/lyrical/internal/mpd"
	"github.com/genricoloni/lyrical/internal/processor"
	"github.com/genricoloni/lyrical/internal/settings"
	"github.com/genricoloni/lyrical/internal/surface"
	"github.com/genricoloni/lyrical/internal/tray"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// AppOptions is the dependency graph of the daemon. It expects Flags to be supplied.
var AppOptions = fx.Options(
	fx.Provide(
		loadConfig,
		func(cfg *config.AppConfig) domain.Config { return cfg },
		newLogger,
		metrics.New,
		newStore,
		fx.Annotate(display.NewScreenTopology, fx.As(new(domain.Display))),
		newWindowRunner,
		newSurfaceFactory,
		newRouter,
		hook.NewActionQueue,
		monitor.NewMprisMonitor,
		newExecutor,
		newHost,
		newSongSink,
		newHookServer,
		fx.Annotate(fetcher.NewHTTPFetcher, fx.As(new(domain.Fetcher))),
		fx.Annotate(processor.NewIconProcessor, fx.As(new(domain.IconProcessor))),
		newTray,
		newEngine,
		newMpdPlayer,
	),
	fx.Invoke(registerHooks),
)

// playerController is a desktop player controller holding a bus connection
type playerController interface {
	domain.PlaybackController
	Close() error
}

func loadConfig(flags Flags) (*config.AppConfig, error) {
	return config.Load(flags.ConfigPath)
}

func newStore(logger *zap.Logger, cfg domain.Config) host.StateStore {
	return settings.NewStore(logger, cfg.GetStateFile(), settings.State{ShowTranslation: true})
}

// windowRunner drives the overlay window from the main goroutine.
// Without a factory it only waits.
type windowRunner struct {
	logger  *zap.Logger
	factory *surface.Factory
}

func newWindowRunner(flags Flags, logger *zap.Logger, met *metrics.Metrics, cfg *config.AppConfig) *windowRunner {
	r := &windowRunner{logger: logger}
	if flags.Headless {
		logger.Info("Running headless, the overlay window is disabled")
		return r
	}
	r.factory = surface.NewFactory(logger, met, surface.LoadFaces(logger, cfg.FontPath))
	return r
}

// Run blocks until ctx is done. A failed window is logged and the daemon
// keeps running with the tray only.
func (r *windowRunner) Run(ctx context.Context) error {
	if r.factory != nil {
		if err := r.factory.Run(ctx); err != nil {
			r.logger.Error("Overlay window unavailable", zap.Error(err))
		}
	}
	<-ctx.Done()
	return nil
}

func newSurfaceFactory(r *windowRunner) domain.SurfaceFactory {
	if r.factory == nil {
		return nil
	}
	return r.factory
}

func newRouter(logger *zap.Logger) *executor.Router {
	return executor.NewRouter(logger, engine.Source)
}

func newExecutor(logger *zap.Logger, mon *monitor.MprisMonitor, cfg domain.Config) (playerController, error) {
	return executor.NewExecutor(logger, mon, cfg.GetPreferredPlayer())
}

func newHost(
	logger *zap.Logger,
	disp domain.Display,
	factory domain.SurfaceFactory,
	router *executor.Router,
	store host.StateStore,
	met *metrics.Metrics,
	cfg domain.Config,
) *host.Host {
	return host.New(logger, disp, factory, router, store, met, host.Options{
		GuardDelay:  cfg.GetGuardDelay(),
		ShowOnStart: cfg.ShowOnStart(),
		DefaultSize: cfg.GetOverlaySize(),
	})
}

// newSongSink routes pushes into the host while tracking their source for
// playback commands
func newSongSink(router *executor.Router, h *host.Host) executor.SongSink {
	return router.Track(h)
}

func newHookServer(
	logger *zap.Logger,
	cfg domain.Config,
	sink executor.SongSink,
	queue *hook.ActionQueue,
	met *metrics.Metrics,
) *hook.Server {
	handler := hook.NewHandler(logger, sink, queue)
	return hook.NewServer(logger, cfg.GetListenAddr(), hook.NewRouter(logger, handler, met))
}

func newTray(logger *zap.Logger, h *host.Host, shutdowner fx.Shutdowner) *tray.Tray {
	return tray.New(logger, h, func() {
		if err := shutdowner.Shutdown(); err != nil {
			logger.Warn("Shutdown request failed", zap.Error(err))
		}
	})
}

func newEngine(
	logger *zap.Logger,
	mon *monitor.MprisMonitor,
	fetch domain.Fetcher,
	proc domain.IconProcessor,
	sink executor.SongSink,
	t *tray.Tray,
) *engine.Engine {
	return engine.NewEngine(logger, mon, fetch, proc, sink, t)
}

func newMpdPlayer(logger *zap.Logger, cfg *config.AppConfig, sink executor.SongSink) *mpd.Player {
	return mpd.New(logger, cfg.Mpd.Address, cfg.Mpd.Password, sink)
}

// registerHooks wires the components together and sets up their lifecycle.
// Hooks stop in reverse order, so the host saves its state last.
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	cfg *config.AppConfig,
	h *host.Host,
	router *executor.Router,
	queue *hook.ActionQueue,
	player playerController,
	server *hook.Server,
	mon *monitor.MprisMonitor,
	eng *engine.Engine,
	mpdPlayer *mpd.Player,
	t *tray.Tray,
) {
	cfg.Log(logger)

	router.Register(engine.Source, player)
	router.Register(hook.Source, queue)
	if mpdPlayer.Enabled() {
		router.Register(mpd.Source, mpdPlayer)
	}
	h.Subscribe(t)

	lc.Append(fx.Hook{
		OnStart: h.Start,
		OnStop: func(ctx context.Context) error {
			err := h.Stop(ctx)
			logger.Info("Shutdown complete")
			return err
		},
	})
	lc.Append(fx.Hook{OnStart: server.Start, OnStop: server.Stop})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return player.Close() },
	})

	// The fx start context ends once startup completes, so the monitor gets
	// its own.
	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if !cfg.MprisEnabled() {
				logger.Info("MPRIS monitoring disabled")
				return nil
			}
			go func() {
				if err := mon.Start(monitorCtx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("MPRIS monitor unavailable", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancelMonitor()
			return mon.Stop(ctx)
		},
	})
	lc.Append(fx.Hook{OnStart: eng.Start, OnStop: eng.Stop})
	lc.Append(fx.Hook{OnStart: mpdPlayer.Start, OnStop: mpdPlayer.Stop})
	lc.Append(fx.Hook{OnStart: t.Start, OnStop: t.Stop})
}
