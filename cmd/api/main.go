package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baharkarakas/member-store/internal/api"
	"github.com/baharkarakas/member-store/internal/auth"
	"github.com/baharkarakas/member-store/internal/config"
	"github.com/baharkarakas/member-store/internal/db"
	"github.com/baharkarakas/member-store/internal/logger"
	"github.com/baharkarakas/member-store/internal/metrics"
	"github.com/baharkarakas/member-store/internal/repository/sqldb"
	"github.com/baharkarakas/member-store/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("exit", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	src, err := db.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer src.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, src, log); err != nil {
			return err
		}
	}

	metrics.Init(src)

	repos := sqldb.NewRepositories(src, log)
	tm := auth.NewTokenManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	r := api.NewRouter(api.RouterDeps{
		Cfg:       cfg,
		Log:       log,
		TM:        tm,
		MemberSvc: services.NewMemberService(repos.Members, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "driver", cfg.Database.Driver, "mode", cfg.Database.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
