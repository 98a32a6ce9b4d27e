package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angeloszaimis/relay-frontend/internal/metrics"
	"github.com/angeloszaimis/relay-frontend/internal/upstream"
)

const (
	SuccessPrefix = "Frontend received this message from the backend: "
	ErrorMessage  = "Error communicating with the backend."

	RequestIDHeader = "X-Request-Id"
)

// Fetcher retrieves the backend message body.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

type GatewayHandler struct {
	logger           *slog.Logger
	upstream         Fetcher
	metricsCollector *metrics.Collector
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (g *GatewayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := extractRequestID(r)
	log := g.logger.With(slog.String("request_id", requestID))

	log.Info("Received request",
		slog.String("from", extractClientIP(r)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("user_agent", r.UserAgent()))

	g.emitEvent(metrics.MetricEvent{
		Type:      metrics.EventRequestReceived,
		Timestamp: start,
	})

	w.Header().Set(RequestIDHeader, requestID)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

	body, err := g.upstream.Fetch(r.Context())
	if err != nil {
		attrs := []any{slog.Any("err", err)}
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			attrs = append(attrs, slog.Int("backend_status", statusErr.StatusCode))
		}
		log.Warn("Backend call failed", attrs...)

		g.emitEvent(metrics.MetricEvent{
			Type:      metrics.EventUpstreamFailed,
			Timestamp: time.Now(),
		})

		wrapped.WriteHeader(http.StatusInternalServerError)
		_, _ = wrapped.Write([]byte(ErrorMessage))
	} else {
		wrapped.WriteHeader(http.StatusOK)
		_, _ = wrapped.Write([]byte(SuccessPrefix + body))
	}

	duration := time.Since(start)
	g.emitEvent(metrics.MetricEvent{
		Type:       metrics.EventResponseCompleted,
		Timestamp:  time.Now(),
		Duration:   duration,
		StatusCode: wrapped.statusCode,
	})

	log.Debug("Request completed",
		slog.Int("status", wrapped.statusCode),
		slog.Duration("duration", duration))
}

// extractRequestID reuses a well-formed inbound request id and mints a new
// one otherwise.
func extractRequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		if parsed, err := uuid.Parse(id); err == nil {
			return parsed.String()
		}
	}
	return uuid.NewString()
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (g *GatewayHandler) emitEvent(event metrics.MetricEvent) {
	if g.metricsCollector == nil {
		return
	}
	g.metricsCollector.Emit(event)
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// NewGatewayHandler wires the handler to its backend. collector may be nil.
func NewGatewayHandler(logger *slog.Logger, fetcher Fetcher, collector *metrics.Collector) *GatewayHandler {
	return &GatewayHandler{
		logger:           logger,
		upstream:         fetcher,
		metricsCollector: collector,
	}
}
