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
	"github.com/limaJavier/timetabling-lp/pkg/config"
	applogger "github.com/limaJavier/timetabling-lp/pkg/logger"
	"github.com/limaJavier/timetabling-lp/pkg/server"
	"go.uber.org/zap"
)

func main() {
	configPathPtr := flag.String("config", "", "Path to the configuration file; if empty, config.yaml is searched in ./config and the working directory")
	flag.Parse()

	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	options, err := cfg.Compiler.Options(logger)
	if err != nil {
		logger.Fatal("invalid compiler configuration", zap.Error(err))
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := server.NewRouter(server.NewHandler(options, cfg.Compiler.Rooms, cfg.Server.MaxBodyBytes, logger))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("compile service started", zap.String("addr", srv.Addr), zap.Bool("rooms", cfg.Compiler.Rooms))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("compile service failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}

	logger.Info("compile service stopped")
}
