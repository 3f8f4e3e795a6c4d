package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"easypro-api/internal/auth"
	"easypro-api/internal/cache"
	"easypro-api/internal/config"
	"easypro-api/internal/database"
	"easypro-api/internal/handlers"
	"easypro-api/internal/plagiarism"
	"easypro-api/internal/ratelimit"
	"easypro-api/internal/routes"
	"easypro-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gin.SetMode(cfg.Server.Mode)
	auth.Configure(cfg.JWT)

	// Init database
	if err := database.InitDB(cfg.Database); err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	if cfg.Cloudinary.Configured() {
		uploader, err := storage.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			return fmt.Errorf("init cloudinary: %w", err)
		}
		storage.SetUploader(uploader)
	} else {
		log.Println("Cloudinary credentials missing; file uploads are disabled")
	}

	pc := cfg.Plagiarism
	client := plagiarism.NewClient(plagiarism.ClientConfig{
		Endpoint:    pc.APIURL,
		Token:       pc.APIToken,
		TextTimeout: pc.TextTimeout,
		URLTimeout:  pc.URLTimeout,
	})
	if !client.Configured() {
		log.Println("GOWINSTON_API_TOKEN not set; plagiarism checks will fail upstream")
	}
	results := plagiarism.NewResultCache(nil)
	service := plagiarism.NewService(client, results, plagiarism.ServiceConfig{
		CacheTTL:      pc.CacheTTL,
		MaxInputChars: pc.MaxInputChars,
		APIConfigured: client.Configured(),
	})
	limiter := ratelimit.NewFixedWindow(pc.RateLimit.Requests, pc.RateLimit.Window)

	janitor := cache.NewJanitor(pc.SweepInterval).
		Add("plagiarism results", results).
		Add("plagiarism rate limit", limiter)
	janitor.Start()
	defer janitor.Stop()

	router := routes.SetupRoutes(routes.Dependencies{
		Plagiarism: handlers.NewPlagiarismHandler(service, limiter),
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (plagiarism limit: %s)", srv.Addr, limiter.Describe())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
