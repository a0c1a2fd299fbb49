package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ipspay/internal/config"
	"ipspay/internal/core/expire"
	httpx "ipspay/internal/http"
	"ipspay/internal/qr"
	paymentsvc "ipspay/internal/services/payment"
	"ipspay/internal/store/postgres"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init DB
	pool := postgres.MustOpen(ctx, cfg.DB.DSN)
	defer pool.Close()
	repo := postgres.NewRepo(pool)
	uow := postgres.NewUnitOfWork(pool)

	// QR render cache is optional; without Redis every call renders.
	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer cache.Close()
	}
	renderer := qr.NewRenderer(cache)

	svc := paymentsvc.NewService(repo.Payments(), repo.Plans(), uow, renderer, cfg.IPS)

	// Start expiry sweep worker
	worker := expire.NewWorker(svc, cfg.Sweep.Every)
	go worker.Run(ctx)

	// Router
	r := httpx.NewRouter(cfg, svc)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("IPS pay API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
