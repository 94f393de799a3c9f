package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/codyjhsieh/axlepolicy/internal/carrier"
	"github.com/codyjhsieh/axlepolicy/internal/carrier/auth"
	"github.com/codyjhsieh/axlepolicy/internal/carrier/policy"
	"github.com/codyjhsieh/axlepolicy/internal/carrier/upstream"
	"github.com/codyjhsieh/axlepolicy/internal/platform/config"
	"github.com/codyjhsieh/axlepolicy/internal/platform/httpserver"
	"github.com/codyjhsieh/axlepolicy/internal/platform/logger"
	"github.com/codyjhsieh/axlepolicy/internal/platform/metrics"
	httptransport "github.com/codyjhsieh/axlepolicy/internal/transport/http"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal services packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat)
	m := metrics.New()

	client := upstream.NewClient(cfg.UpstreamTimeout, log)
	authSvc := auth.New(client, log, auth.WithMetrics(m))
	fetcher := policy.NewFetcher(client, log)
	pipeline := carrier.New(cfg, authSvc, fetcher, log, carrier.WithMetrics(m))

	handler := httptransport.NewPolicyHandler(pipeline, log)
	router := httptransport.NewRouter(handler, log)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting axlepolicy gateway", "addr", cfg.Addr, "carriers", len(cfg.Carriers))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
