package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	gateAdapter "github.com/StariusTechnologies/appeal-modmail-plugins/internal/adapters/gate"
	gatewayAdapter "github.com/StariusTechnologies/appeal-modmail-plugins/internal/adapters/gateway"
	httpAdapter "github.com/StariusTechnologies/appeal-modmail-plugins/internal/adapters/http"
	redisAdapter "github.com/StariusTechnologies/appeal-modmail-plugins/internal/adapters/redis"
	"github.com/StariusTechnologies/appeal-modmail-plugins/internal/config"
	"github.com/StariusTechnologies/appeal-modmail-plugins/internal/logging"
	"github.com/StariusTechnologies/appeal-modmail-plugins/internal/router"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/interview"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/observability"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/waiter"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the gateway and serve interviews",
	Long:  `Connects to the modmail gateway, listens for thread-ready events and operator commands, and exposes the admin HTTP surface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		// Credentials may live in a .env next to the binary.
		_ = godotenv.Load()

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		logger := logging.New(logging.ParseLevel(cfg.LogLevel))
		bot := domain.UserRef{ID: cfg.Bot.ID, Name: cfg.Bot.Name, AvatarURL: cfg.Bot.AvatarURL}

		reg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(reg)

		store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithPrefix(cfg.Redis.Prefix))
		defer store.Close()

		waits := waiter.New()
		client := gatewayAdapter.NewClient(cfg.Gateway.URL, cfg.Gateway.Token,
			gatewayAdapter.WithClientLogger(logger))

		runner := interview.NewRunner(store, client, client, client, waits, bot,
			interview.WithTimeout(cfg.ResponseTimeout()),
			interview.WithSettle(cfg.Settle()),
			interview.WithLogger(logger),
			interview.WithMetrics(metrics),
		)
		setup := interview.NewSetup(store, client, waits, bot,
			interview.WithSetupTimeout(cfg.ResponseTimeout()),
			interview.WithSetupLogger(logger),
			interview.WithSetupMetrics(metrics),
		)

		rt := router.New(waits, runner, setup,
			gateAdapter.NewAllowlist(cfg.Moderators),
			client, client, bot, cfg.Scope,
			router.WithPrefix(cfg.CommandPrefix),
			router.WithLogger(logger),
		)
		client.OnMessage(rt.HandleMessage)
		client.OnThreadReady(rt.HandleThreadReady)

		srv := &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: httpAdapter.NewHandler(store, waits, client.Connected, reg),
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		gatewayErrors := make(chan error, 1)
		go func() {
			logger.Info("connecting to gateway", "url", cfg.Gateway.URL)
			gatewayErrors <- client.Run(ctx)
		}()

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting admin server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-gatewayErrors:
			return fmt.Errorf("gateway: %w", err)

		case err := <-serverErrors:
			return fmt.Errorf("admin server: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			cancel()

			drainCtx, drainCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer drainCancel()
			if err := srv.Shutdown(drainCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				_ = srv.Close()
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
