package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/angeloszaimis/relay-frontend/config"
)

var ErrNotListening = errors.New("httpserver: Serve called before Listen")

// Server wraps http.Server with address validation, an explicit bind step
// and graceful shutdown.
type Server struct {
	server *http.Server

	mutex    sync.Mutex
	listener net.Listener
}

// New creates a server for addr ("host:port" or ":port"). The address is
// validated but not bound until Listen.
func New(addr string, handler http.Handler) (*Server, error) {
	if addr == "" {
		return nil, errors.New("httpserver: empty address")
	}

	if err := config.ValidateHostPort(addr); err != nil {
		return nil, err
	}

	srv := &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}

	return srv, nil
}

// Listen binds the TCP listener so the caller knows the port is open before
// serving starts.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	s.listener = ln
	s.mutex.Unlock()

	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections on the bound listener until Shutdown.
// A clean shutdown returns nil.
func (s *Server) Serve() error {
	s.mutex.Lock()
	ln := s.listener
	s.mutex.Unlock()

	if ln == nil {
		return ErrNotListening
	}

	err := s.server.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown gracefully shuts down the server with a 5-second timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)

	// Shutdown only closes listeners that reached Serve.
	s.mutex.Lock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.mutex.Unlock()

	return err
}

// DisplayURL renders the address the way the startup banner shows it,
// substituting localhost when no host or a wildcard host is configured.
func DisplayURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	return "http://" + net.JoinHostPort(host, port)
}
