package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/SiteLensProject/sitelens/pkg/analyzer"
	"github.com/SiteLensProject/sitelens/pkg/auth"
	"github.com/SiteLensProject/sitelens/pkg/config"
	"github.com/SiteLensProject/sitelens/pkg/console"
	"github.com/SiteLensProject/sitelens/pkg/history"
)

func serveCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SiteLens web console",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(cfg)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (overrides config)")

	return cmd
}

func runServer(cfg *config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting SiteLens console",
		slog.String("addr", cfg.Server.Address),
		slog.String("api", cfg.Analyzer.BaseURL),
	)

	gate := auth.NewGate(
		auth.DefaultChain(cfg.Auth.Users, cfg.Auth.UsersList),
		cfg.Auth.SecretKey,
		logger.With(slog.String("component", "auth")),
	)
	sessions := auth.NewSessionStore(cfg.Server.SessionIdleTimeout, nil)

	client := analyzer.New(analyzer.Config{
		BaseURL: cfg.Analyzer.BaseURL,
		APIKey:  cfg.Analyzer.APIKey,
		OAuth:   oauthConfig(cfg),
		Timeout: cfg.Analyzer.Timeout,
	}, logger.With(slog.String("component", "analyzer")))

	hist := history.NewStore(cfg.History.Limit, nil)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := console.NewMetrics(sessions.Len)
	if err := metrics.Register(registry); err != nil {
		return err
	}

	handler, err := console.NewHandler(gate, sessions, client, hist, metrics,
		logger.With(slog.String("component", "console")))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}

	logger.Info("console ready", slog.String("addr", cfg.Server.Address))

	serverErrChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrChan:
		logger.Error("server error triggered shutdown", slog.String("error", err.Error()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

func oauthConfig(cfg *config.Config) *clientcredentials.Config {
	o := cfg.Analyzer.OAuth
	if o == nil {
		return nil
	}
	return &clientcredentials.Config{
		TokenURL:     o.TokenURL,
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		Scopes:       o.Scopes,
	}
}
