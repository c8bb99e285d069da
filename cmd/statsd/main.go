package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gw/kalshi-tradestats/internal/api"
	"github.com/gw/kalshi-tradestats/internal/config"
	"github.com/gw/kalshi-tradestats/internal/history"
	"github.com/gw/kalshi-tradestats/internal/logger"
	"github.com/gw/kalshi-tradestats/internal/scheduler"
	"github.com/gw/kalshi-tradestats/internal/stats"
)

func main() {
	cfgPath := flag.String("config", config.Path(), "path to YAML config")
	logPath := flag.String("log", "", "trade log path (overrides tradelog.path)")
	addr := flag.String("addr", "", "listen address (overrides server.http_addr)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *logPath != "" {
		cfg.TradeLog.Path = *logPath
	}
	if *addr != "" {
		cfg.Server.HTTPAddr = *addr
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("stats server starting",
		zap.String("env", cfg.App.Env),
		zap.String("addr", cfg.Server.HTTPAddr),
		zap.String("trade_log", cfg.TradeLog.Path),
		zap.Bool("dedupe", cfg.TradeLog.Dedupe),
	)

	svc := &stats.Service{
		LogPath: cfg.TradeLog.Path,
		Dedupe:  cfg.TradeLog.Dedupe,
		Logger:  log.Named("stats"),
	}

	handler := &api.StatsHandler{
		Stats:          svc,
		LogPath:        cfg.TradeLog.Path,
		StreamInterval: cfg.Stream.Interval,
		Logger:         log.Named("api"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			log.Fatal("history open failed", zap.String("path", cfg.History.Path), zap.Error(err))
		}
		defer store.Close()
		handler.History = store

		if cfg.Snapshot.Enabled {
			runner := scheduler.New(ctx, log.Named("cron"))
			job := scheduler.SnapshotJob(svc, store, log.Named("snapshot"))
			if _, err := runner.Add(cfg.Snapshot.Schedule, job); err != nil {
				log.Fatal("cron register snapshot failed", zap.String("schedule", cfg.Snapshot.Schedule), zap.Error(err))
			}
			runner.Start()
			defer runner.Stop()
		}
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           api.NewRouter(handler, log.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("received signal, shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	log.Info("stats server stopped")
}
