package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moto-tune/suspension-backend/config"
	"github.com/moto-tune/suspension-backend/internal/auth"
	authmw "github.com/moto-tune/suspension-backend/internal/auth/middleware"
	"github.com/moto-tune/suspension-backend/internal/bootstrap"
	"github.com/moto-tune/suspension-backend/internal/social/jobs"
)

const (
	serviceName = "suspension-api"
	// chat buckets idle this long are full again and can be dropped
	limiterIdle = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open stores: %v", err)
	}
	defer stores.Close()

	var verifier authmw.TokenVerifier
	if cfg.Firebase.CredentialsPath != "" {
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		verifier = client
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set, using X-User-Id dev auth")
	}

	services := bootstrap.NewServices(cfg, stores)

	scheduler := jobs.NewScheduler(services.Social)
	scheduler.AddSweep("chat limiter", services.ChatLimiter, limiterIdle)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Config:      cfg,
		Stores:      stores,
		Services:    services,
		Verifier:    verifier,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("%s %s listening on :%s (%s)", serviceName, cfg.App.Version, cfg.Server.Port, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
