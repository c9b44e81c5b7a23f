package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lumen_bridge/internal/config"
	"lumen_bridge/internal/logger"
	"lumen_bridge/internal/relay"
	"lumen_bridge/internal/server"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// writeMargin leaves room to answer 504 after the upstream deadline passes.
const writeMargin = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel, cfg.LogFormat)
	if cfg.LogLevel != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	fwd, err := relay.NewForwarder(cfg.Relay.Upstream, relay.Options{
		Timeout:      cfg.Relay.Timeout,
		RateLimitRPS: cfg.Relay.RateLimitRPS,
	}, log)
	if err != nil {
		log.Fatalw("failed to init relay", "err", err)
	}

	srv := server.New(cfg.Relay.Port, fwd.InitRoutes(), server.Timeouts{Write: cfg.Relay.Timeout + writeMargin})
	go func() {
		log.Infow("relay listening", "addr", srv.Addr(), "upstream", cfg.Relay.Upstream,
			"timeout", cfg.Relay.Timeout, "rate_limit_rps", cfg.Relay.RateLimitRPS)
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting relay", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("shutting down relay...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("relay forced to shutdown", "err", err)
	}
}
