// Package messageapi is the demo backend the frontend relays: a single JSON
// endpoint returning a greeting.
package messageapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	MessagePath    = "/api/message"
	DefaultMessage = "Hello from the backend!"
)

type Message struct {
	Message string `json:"message"`
}

type API struct {
	logger  *slog.Logger
	message string
}

func New(logger *slog.Logger, message string) *API {
	if message == "" {
		message = DefaultMessage
	}
	return &API{logger: logger, message: message}
}

// Routes returns the backend's mux. Anything but GET /api/message falls
// through to the mux defaults.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+MessagePath, a.handleMessage)
	return mux
}

func (a *API) handleMessage(w http.ResponseWriter, r *http.Request) {
	a.logger.Info("Serving message",
		slog.String("from", r.RemoteAddr),
		slog.String("path", r.URL.Path))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(Message{Message: a.message}); err != nil {
		a.logger.Error("Failed to encode message", slog.Any("err", err))
	}
}
