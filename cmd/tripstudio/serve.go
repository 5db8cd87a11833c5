package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/tripstudioapp/tripstudio/internal/config"
	"github.com/tripstudioapp/tripstudio/internal/handlers"
	"github.com/tripstudioapp/tripstudio/internal/healthcheck"
	platformchecker "github.com/tripstudioapp/tripstudio/internal/healthcheck/checkers/platform"
	sessionschecker "github.com/tripstudioapp/tripstudio/internal/healthcheck/checkers/sessions"
	"github.com/tripstudioapp/tripstudio/internal/logger"
	"github.com/tripstudioapp/tripstudio/internal/media"
	"github.com/tripstudioapp/tripstudio/internal/picker"
	"github.com/tripstudioapp/tripstudio/internal/platform"
	"github.com/tripstudioapp/tripstudio/internal/server"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			providePlatformClient,
			provideMediaService,
			provideMediaAPI,
			providePickerSessions,
			provideChecker,
			provideServerHandler(providePingHandler),
			provideServerHandler(provideAuthHandler),
			provideServerHandler(provideMediaHandler),
			provideServerHandler(providePickerHandler),
			fx.Annotate(provideServer, fx.ParamTags("", "", `group:"server_handlers"`)),
		),
		fx.Invoke(startServer),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func providePlatformClient(log *slog.Logger, cfg config.Config) *platform.Client {
	return platform.NewClient(log, cfg.Platform)
}

func provideMediaService(log *slog.Logger, client *platform.Client, cfg config.Config) *media.Service {
	return media.NewService(log, client, cfg.Media)
}

func provideMediaAPI(svc *media.Service) picker.MediaAPI {
	return svc
}

func providePickerSessions(log *slog.Logger, api picker.MediaAPI, cfg config.Config) *picker.Sessions {
	return picker.NewSessions(log, api, cfg.Media)
}

func provideChecker(log *slog.Logger, api picker.MediaAPI, sessions *picker.Sessions) healthcheck.Checker {
	return healthcheck.Multi{
		platformchecker.NewChecker(log, api),
		sessionschecker.NewChecker(log, sessions),
	}
}

func providePingHandler(log *slog.Logger, checker healthcheck.Checker) *handlers.PingHandler {
	return handlers.NewPingHandler(log, checker)
}

func provideAuthHandler(log *slog.Logger, cfg config.Config) *handlers.AuthHandler {
	return handlers.NewAuthHandler(log, cfg)
}

func provideMediaHandler(log *slog.Logger, svc *media.Service, cfg config.Config) *handlers.MediaHandler {
	return handlers.NewMediaHandler(log, svc, cfg.Media)
}

func providePickerHandler(log *slog.Logger, sessions *picker.Sessions) *handlers.PickerHandler {
	return handlers.NewPickerHandler(log, sessions)
}

func provideServer(log *slog.Logger, cfg config.Config, serverHandlers []server.Handler) *server.Server {
	return server.NewServer(log, cfg.Server.Addr, cfg.Auth.JWTSecret, serverHandlers)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
