package main

import (
	"net/http"

	"github.com/angeloszaimis/relay-frontend/internal/handler"
	"github.com/angeloszaimis/relay-frontend/internal/metrics"
)

// setupRouter registers the one public route. Every other path and method
// gets the mux's default 404/405.
func setupRouter(gatewayHandler *handler.GatewayHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", gatewayHandler)

	return mux
}

func setupAdminRouter(metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", metricsCollector.Handler())

	return mux
}
