package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"noteshub.in/noteshub/internal/api"
	"noteshub.in/noteshub/internal/config"
	"noteshub.in/noteshub/internal/core"
	"noteshub.in/noteshub/internal/storage"
	"noteshub.in/noteshub/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	catalog, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("Failed to initialize catalog store: %v", err)
	}
	defer catalog.Close()

	ctx := context.Background()
	artifacts, err := storage.NewMinIOStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize artifact store: %v", err)
	}

	// The generator variant is chosen once here: Gemini when a key is
	// configured, otherwise the upload flow runs on the fallback template
	// alone. Missing key is a supported state, not an error.
	var generator core.NotesGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := core.NewGeminiGenerator(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Fatalf("Failed to create generator client: %v", err)
		}
		defer gemini.Close()
		generator = gemini
		logger.Info("Notes generator: Gemini API")
	} else {
		logger.Info("Notes generator: fallback template (no GEMINI_API_KEY)")
	}

	uploadService := core.NewUploadService(catalog, artifacts, generator, logger)
	browseService := core.NewBrowseService(catalog)

	handler := api.NewHandler(uploadService, browseService, logger)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second, // uploads carry whole PDFs
		WriteTimeout: 120 * time.Second, // generator calls can take a while
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on :%s. Press Ctrl+C to quit.", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Could not listen on :%s: %v", cfg.HTTPPort, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exiting gracefully")
}
