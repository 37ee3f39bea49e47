// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unit-converter/internal/app"
	"unit-converter/internal/config"
	"unit-converter/internal/handler"
	"unit-converter/internal/storage"
	"unit-converter/pkg/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var log *zap.Logger
	if cfg.Logging.Development {
		log = logger.NewDevelopmentLogger("unit-converter")
	} else {
		log = logger.NewLogger("unit-converter", cfg.Logging.Level)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, err := app.Bootstrap(ctx, cfg, log, app.Options{})
	if err != nil {
		log.Fatal("failed to initialize", zap.Error(err))
	}
	defer core.Close()
	if err := core.LoadErrors(); err != nil {
		log.Warn("starting with empty collections", zap.Error(err))
	}

	// Serve cached rates right away and refresh in the background.
	if core.Rates.Stale() {
		core.Rates.RefreshAsync(ctx)
	}
	go core.Rates.Run(ctx, cfg.Rates.RefreshInterval)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.SetupRouter(core.Service, readiness(core), log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Rates.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting unit converter service",
			zap.String("port", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// readiness probes the storage backend with a read of a key that may not
// exist.
func readiness(core *app.App) handler.ReadyFunc {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := core.Store.Get(ctx, core.Config.Storage.Namespace+":rates")
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return nil
	}
}
