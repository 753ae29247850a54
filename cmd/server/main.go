package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/handler"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/server"
	"github.com/fleetzen/fleetzen/internal/service"
	"github.com/fleetzen/fleetzen/internal/store"
	"github.com/fleetzen/fleetzen/models"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	if err := newRootCommand(buildInfo).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(buildInfo models.AppBuildInfo) *cobra.Command {
	var flags *config.StructuredConfig

	cmd := &cobra.Command{
		Use:           "fleetzen-server",
		Short:         "FleetZen intervention intake server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), buildInfo.String())
			return run(cmd.Context(), flags, buildInfo)
		},
	}
	flags = config.RegisterServerFlags(cmd.PersistentFlags())

	cmd.AddCommand(newTokenCommand(flags))

	return cmd
}

func run(ctx context.Context, flags *config.StructuredConfig, buildInfo models.AppBuildInfo) error {
	log := logger.NewLogger("fleetzen-server")

	cfg, err := config.GetServerConfig(flags)
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	log = log.WithLevel(cfg.App.LogLevel)

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg, buildInfo, log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	handlers, err := handler.NewHandlers(services, storages, cfg, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	return srv.RunServer(ctx)
}

var errNoTokenSignKey = errors.New("token signing key and issuer are required")

// newTokenCommand issues session tokens for field agents.
func newTokenCommand(flags *config.StructuredConfig) *cobra.Command {
	var (
		agentID   string
		agentName string
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a session token for an agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetStructuredConfig(flags)
			if err != nil {
				return err
			}
			if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
				return errNoTokenSignKey
			}

			auth := service.NewAuthService(config.ServerApp{
				TokenSignKey: cfg.App.TokenSignKey,
				TokenIssuer:  cfg.App.TokenIssuer,
			}, logger.Nop())

			token, err := auth.CreateToken(cmd.Context(), models.Agent{ID: agentID, Name: agentName}, ttl)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&agentID, "agent-id", "", "agent identifier (required)")
	cmd.Flags().StringVar(&agentName, "agent-name", "", "agent display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("agent-id")

	return cmd
}
