package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/bootstrap"
	"github.com/joeystdio/handoff-app/internal/config"
	"github.com/joeystdio/handoff-app/internal/infra/cache"
	"github.com/joeystdio/handoff-app/internal/infra/db"
	"github.com/joeystdio/handoff-app/internal/modules/handler"
	"github.com/joeystdio/handoff-app/internal/modules/service"
	"github.com/joeystdio/handoff-app/internal/modules/tracking"
	"github.com/joeystdio/handoff-app/internal/router"
	"github.com/joeystdio/handoff-app/internal/telemetry"
)

//	@title			Handoff API
//	@version		1.0
//	@description	Client-portal backend for freelancers.
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Fatal("setup tracing", zap.Error(err))
	}

	gdb := do.MustInvoke[*gorm.DB](inj)
	rdb := do.MustInvoke[*redis.Client](inj)
	if tp != nil {
		if err := db.RegisterOpenTelemetryPlugin(gdb); err != nil {
			log.Warn("gorm tracing plugin", zap.Error(err))
		}
		if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
			log.Warn("redis tracing plugin", zap.Error(err))
		}
	}

	recorder := do.MustInvoke[*tracking.Recorder](inj)

	engine := router.NewRouter(router.RouterDeps{
		Config:              cfg,
		Log:                 log,
		AuthService:         do.MustInvoke[service.AuthService](inj),
		ClientService:       do.MustInvoke[service.ClientService](inj),
		AuthHandler:         do.MustInvoke[*handler.AuthHandler](inj),
		PortalHandler:       do.MustInvoke[*handler.PortalHandler](inj),
		ClientHandler:       do.MustInvoke[*handler.ClientHandler](inj),
		ProjectHandler:      do.MustInvoke[*handler.ProjectHandler](inj),
		TaskHandler:         do.MustInvoke[*handler.TaskHandler](inj),
		UpdateHandler:       do.MustInvoke[*handler.UpdateHandler](inj),
		FileHandler:         do.MustInvoke[*handler.FileHandler](inj),
		ClientPortalHandler: do.MustInvoke[*handler.ClientPortalHandler](inj),
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}

		// Let in-flight tracking appends land before the process exits.
		recorder.Wait()

		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown", zap.Error(err))
		}
		if err := rdb.Close(); err != nil {
			log.Warn("redis close", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("server stopped")
}
