package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lumen_bridge/internal/broker"
	"lumen_bridge/internal/config"
	"lumen_bridge/internal/handlers"
	"lumen_bridge/internal/logger"
	"lumen_bridge/internal/repository"
	"lumen_bridge/internal/repository/db"
	"lumen_bridge/internal/server"
	"lumen_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title        Lumen Bridge API
// @version      1.0
// @description  Luminosity register and control mailbox between a lamp device and its app.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		// the logger is not configured yet
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel, cfg.LogFormat)
	if cfg.LogLevel != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	repos := newRepository(cfg, sqlDB)
	log.Infow("mailbox backend", "backend", cfg.Mailbox.Backend, "persistent", repos.CommandRepo.IsPersistent(),
		"retain_manual_color", cfg.Mailbox.RetainManualColor)

	opts := service.Options{RetainManualColor: cfg.Mailbox.RetainManualColor}
	var mq *broker.Broker
	if cfg.MQTT.Enabled {
		mq, err = broker.New(cfg.MQTT, log)
		if err != nil {
			log.Fatalw("failed to init mqtt broker", "err", err)
		}
		opts.Publisher = mq
	}

	services := service.NewService(repos, opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := services.Mailbox.EnsureDefault(ctx); err != nil {
		log.Fatalw("failed to seed control command", "err", err)
	}

	if mq != nil {
		if err := mq.Attach(services.Register); err != nil {
			log.Fatalw("failed to attach mqtt readings", "err", err)
		}
		if err := mq.Start(); err != nil {
			log.Fatalw("failed to start mqtt broker", "err", err)
		}
		defer func() { _ = mq.Close() }()
	}

	if cfg.Simulator.Enabled {
		log.Infow("device simulator enabled", "tick", cfg.Simulator.Tick)
		go services.Simulator.Run(ctx, cfg.Simulator.Tick)
	}

	apiHandler := handlers.NewHandler(services, log)
	srv := server.New(cfg.Port, apiHandler.InitRoutes(), server.Timeouts{})
	runHTTPServer(srv, log)

	waitForShutdown(cancel, srv, log)
}

// newRepository picks the mailbox store. There is no fallback between backends.
func newRepository(cfg *config.Config, sqlDB *sql.DB) *repository.Repository {
	if cfg.Mailbox.Backend == config.BackendMemory {
		return repository.NewVolatileRepository(sqlDB)
	}
	return repository.NewRepository(sqlDB)
}

func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the simulator
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
