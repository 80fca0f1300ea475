package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"task-manager/config"
	"task-manager/routes"
	"task-manager/store"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tasks",
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
	}
	if cfg.File != "" {
		logger.Debug("config file loaded", "path", cfg.File)
	}

	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the task store
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open store", "backend", store.Backend(cfg.DatabaseURL), "err", err)
	}
	defer st.Close()
	logger.Info("store ready", "backend", store.Backend(cfg.DatabaseURL))

	r := routes.NewRouter(routes.Options{
		Store:         st,
		Logger:        logger,
		AllowedOrigin: cfg.ClientOrigin,
	})

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	// Start the server
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("bye")
}
