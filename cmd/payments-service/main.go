package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/config"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/httpx"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/idempotency"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/kafka"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/logging"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/metrics"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/postgres"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/rabbit"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/shutdown"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/tracing"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/infrastructure/gateway"
	paymenthttp "github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/infrastructure/http"
	paymentkafka "github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/infrastructure/kafka"
	paymentpg "github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/infrastructure/postgres"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/infrastructure/simulator"
)

const service = "payments-service"

func main() {
	var cfg config.Payments
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

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	idem := idempotency.NewStore(rdb, 24*time.Hour)

	rc := rabbit.NewClient(cfg.RabbitURL, log)
	go rc.Run(ctx)

	kc := kafka.NewClient(cfg.KafkaBrokers)
	writer := kc.NewWriter()
	defer writer.Close()
	reader := kc.NewReader(cfg.PaymentsTopic, cfg.KafkaGroupID)
	defer reader.Close()

	propagator := events.NewPropagator(log, rc, kafka.NewSink(writer))

	httpClient := &http.Client{Timeout: 5 * time.Second}
	orders := gateway.NewOrders(cfg.OrdersURL, httpClient)
	clients := gateway.NewClients(cfg.ClientsURL, httpClient)

	attempts := paymentpg.NewAttemptRepository(log, pool)
	types := paymentpg.NewTypeRepository(log, pool)
	charger := simulator.New(log, cfg.SuccessRate)
	svc := application.NewService(log, attempts, types, orders, clients, charger, propagator)
	handler := paymenthttp.NewHandler(log, svc)

	consumer := paymentkafka.NewConsumer(log, reader, idem, svc)
	go func() {
		if err := consumer.Run(ctx); err != nil {
			log.Error("consumer stopped with error", "err", err)
			cancel()
		}
	}()

	m := metrics.NewServerMetrics(service)
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"rabbitmq": string(rc.ConnectionState()),
		})
	})
	r.Handle("/metrics", metrics.Handler())
	r.Mount("/v1/payments", handler.Routes())

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
