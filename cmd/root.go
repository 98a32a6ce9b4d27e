package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/relay-frontend/config"
	"github.com/angeloszaimis/relay-frontend/internal/handler"
	"github.com/angeloszaimis/relay-frontend/internal/httpserver"
	"github.com/angeloszaimis/relay-frontend/internal/metrics"
	"github.com/angeloszaimis/relay-frontend/internal/upstream"
	"github.com/angeloszaimis/relay-frontend/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "relay-frontend",
		Short: "Serve the backend's message on GET /",
		Long: `relay-frontend listens on :3000 and answers GET / by calling the backend
message API (http://localhost:5000/api/message by default) and relaying its body.
Run with no arguments to use the built-in defaults.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			log := newLogger(cmd.OutOrStdout(), cfg)

			fe, err := newFrontend(cfg, log)
			if err != nil {
				log.Error("Failed to create frontend", slog.Any("err", err))
				return err
			}

			if err := fe.listen(cmd.OutOrStdout()); err != nil {
				log.Error("Failed to listen", slog.String("address", cfg.Server.Address), slog.Any("err", err))
				return err
			}

			return fe.serve(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml when present)")
	rootCmd.AddCommand(newBackendCmd(&cfgFile))

	return rootCmd
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return logger.New(w, cfg.Logging.Level, cfg.Server.Environment, cfg.Logging.Level == config.LogLevelDebug)
}

// frontend is the process-wide server instance: the public listener and,
// when configured, the metrics listener.
type frontend struct {
	log       *slog.Logger
	server    *httpserver.Server
	admin     *httpserver.Server
	collector *metrics.Collector
}

func newFrontend(cfg *config.Config, log *slog.Logger) (*frontend, error) {
	upstreamURL, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing upstream url: %w", err)
	}

	fe := &frontend{log: log}

	if cfg.Metrics.Address != "" {
		fe.collector = metrics.NewCollector(cfg.Metrics.BufferSize, log)
		fe.admin, err = httpserver.New(cfg.Metrics.Address, setupAdminRouter(fe.collector))
		if err != nil {
			return nil, fmt.Errorf("creating metrics server: %w", err)
		}
	}

	client := upstream.New(upstreamURL, cfg.UpstreamTimeout())
	gatewayHandler := handler.NewGatewayHandler(log, client, fe.collector)

	fe.server, err = httpserver.New(cfg.Server.Address, setupRouter(gatewayHandler))
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}

	log.Debug("Frontend configured",
		slog.String("upstream", client.URL().String()),
		slog.Duration("upstream_timeout", cfg.UpstreamTimeout()))

	return fe, nil
}

// listen binds every listener and writes the startup banner to out once the
// public port is open.
func (fe *frontend) listen(out io.Writer) error {
	if err := fe.server.Listen(); err != nil {
		return err
	}

	if fe.admin != nil {
		if err := fe.admin.Listen(); err != nil {
			_ = fe.server.Shutdown(context.Background())
			return err
		}
		fe.log.Info("Metrics available at " + httpserver.DisplayURL(fe.admin.Addr().String()) + "/metrics")
	}

	fmt.Fprintln(out, "Frontend server is running on "+httpserver.DisplayURL(fe.server.Addr().String()))
	return nil
}

func (fe *frontend) serve(ctx context.Context) error {
	servers := []*httpserver.Server{fe.server}

	if fe.collector != nil {
		collectorCtx, stopCollector := context.WithCancel(context.Background())
		fe.collector.Start(collectorCtx)
		defer func() {
			stopCollector()
			<-fe.collector.Done()
		}()
		servers = append(servers, fe.admin)
	}

	return serveUntilDone(ctx, fe.log, servers...)
}
