package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/config"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/httpx"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/logging"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/metrics"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/postgres"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/shutdown"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/tracing"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/client/application"
	clienthttp "github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/client/infrastructure/http"
	clientpg "github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/client/infrastructure/postgres"
)

const service = "clients-service"

func main() {
	var cfg config.Clients
	if err := config.Load(&cfg); err != nil {
		panic(err)
	}
	log := logging.New(service, cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, service, cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	pool, err := postgres.NewPool(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := clientpg.NewRepository(log, pool)
	svc := application.NewService(repo)
	handler := clienthttp.NewHandler(log, svc)

	m := metrics.NewServerMetrics(service)
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())
	r.Mount("/v1/clients", handler.Routes())

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("shutdown complete")
}
