package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anime-shed/doc-insight-go/internal/config"
	"github.com/anime-shed/doc-insight-go/internal/container"
	"github.com/anime-shed/doc-insight-go/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	logger.SetLevel(cfg.LogLevel)
	if logger.Logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}

	server := &http.Server{
		Addr:    cfg.ServerAddress(),
		Handler: c.Handler(),
		// Analysis requests poll the service for a while; the write
		// timeout must outlast the request timeout.
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address":          cfg.ServerAddress(),
			"timeout":          cfg.RequestTimeout,
			"analysis_timeout": cfg.AnalysisTimeout,
			"upload_storage":   cfg.Upload.Storage,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithField("signal", "shutdown").Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.WithField("address", cfg.ServerAddress()).Info("Server exited")
}
