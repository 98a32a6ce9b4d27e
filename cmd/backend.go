package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/relay-frontend/config"
	"github.com/angeloszaimis/relay-frontend/internal/httpserver"
	"github.com/angeloszaimis/relay-frontend/internal/messageapi"
)

func newBackendCmd(cfgFile *string) *cobra.Command {
	var message string

	backendCmd := &cobra.Command{
		Use:   "backend",
		Short: "Run the demo message API the frontend relays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}

			log := newLogger(cmd.OutOrStdout(), cfg)

			srv, err := newBackendServer(cfg, log, message)
			if err != nil {
				log.Error("Failed to create backend", slog.Any("err", err))
				return err
			}

			if err := srv.Listen(); err != nil {
				log.Error("Failed to listen", slog.String("address", cfg.Backend.Address), slog.Any("err", err))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Backend server is running on "+httpserver.DisplayURL(srv.Addr().String()))

			return serveUntilDone(cmd.Context(), log, srv)
		},
	}

	backendCmd.Flags().StringVar(&message, "message", messageapi.DefaultMessage, "message returned by GET /api/message")

	return backendCmd
}

func newBackendServer(cfg *config.Config, log *slog.Logger, message string) (*httpserver.Server, error) {
	api := messageapi.New(log, message)
	return httpserver.New(cfg.Backend.Address, api.Routes())
}
