package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"aura/internal/app"
	"aura/internal/vaultserver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "vaultd:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	// .env only fills variables that are not already set.
	_ = godotenv.Load()
	cfg := vaultserver.LoadConfig()

	cmd := &cobra.Command{
		Use:           "vaultd",
		Short:         "Development vault server for aura hand-off sessions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	f.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "base URL of join links")
	f.StringVar(&cfg.Store, "store", cfg.Store, "session store: memory, leveldb or dynamodb")
	f.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "leveldb data directory")
	f.StringVar(&cfg.Table, "table", cfg.Table, "dynamodb table name")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	f.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log as JSON")
	return cmd
}

func run(ctx context.Context, cfg vaultserver.Config) error {
	log := app.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogJSON)

	st, err := vaultserver.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var opts []vaultserver.Option
	if cfg.PlacesKey != "" {
		opts = append(opts, vaultserver.WithPlaces(vaultserver.NewGooglePlaces(cfg.PlacesKey)))
	} else {
		log.Warn("GOOGLE_PLACES_API_KEY not set; provider lookup disabled")
	}
	srv, err := vaultserver.New(st, cfg.PublicURL, log, opts...)
	if err != nil {
		return err
	}

	hs := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	log.Info("vaultd listening", "addr", cfg.Addr, "store", cfg.Store, "public_url", cfg.PublicURL)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
