// Package main is the entry point for the Apricodi builder server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"github.com/apricodi/builder/internal/config"
	"github.com/apricodi/builder/internal/database"
	"github.com/apricodi/builder/internal/generation"
	"github.com/apricodi/builder/internal/router"
	"github.com/apricodi/builder/internal/services"
	"github.com/apricodi/builder/internal/telemetry"
	"github.com/apricodi/builder/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println(version.String())
		os.Exit(0)
	}

	configPath := flag.String("config", "config.yaml", "path to config file")
	envFile := flag.String("env", ".env", "path to .env file")
	showVersion := flag.Bool("version", false, "show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	config.LoadDotEnv(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Warning: Could not load config from %s: %v", *configPath, err)
		log.Println("Using default configuration...")
		cfg = config.Default()
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	shutdownTracing, err := telemetry.Init(context.Background(), cfg.Telemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Error flushing traces: %v", err)
		}
	}()

	if cfg.Generation.APIKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set; generation requests will fail until it is configured")
	}

	generator := generation.NewClient(generation.Config{
		APIKey:           cfg.Generation.APIKey,
		BaseURL:          cfg.Generation.BaseURL,
		Model:            cfg.Generation.Model,
		Timeout:          cfg.Generation.GetTimeout(),
		StructuredOutput: cfg.Generation.UseStructuredOutput(),
		MaxResponseBytes: cfg.Generation.MaxResponseBytes,
		TracerProvider:   otel.GetTracerProvider(),
	})

	authService := services.NewAuthService(db, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go cleanSessions(ctx, authService)

	gin.SetMode(gin.ReleaseMode)
	r := router.New(cfg, router.Dependencies{
		Auth:      authService,
		Projects:  services.NewProjectService(db),
		Leads:     services.NewLeadService(db),
		Audit:     services.NewAuditService(db),
		Generator: generator,
		DB:        db,
	})
	defer r.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("%s %s starting on %s", version.Name, version.Version, addr)
	log.Printf("Access at: http://%s%s", addr, cfg.Server.PathPrefix)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Println("Server stopped")
}

func cleanSessions(ctx context.Context, auth *services.AuthService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.CleanExpiredSessions(); err != nil {
				log.Printf("[Auth] Failed to clean expired sessions: %v", err)
			}
		}
	}
}
