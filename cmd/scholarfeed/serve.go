package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rushteam/scholarfeed/server"
)

var (
	serveAddr    string
	serveImports []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the feed HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		for _, path := range serveImports {
			stats, err := importCatalog(ctx, a.catalog, path)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			logger.Info("catalog imported", "file", path,
				"papers", stats.Papers, "repositories", stats.Repositories, "skipped", stats.Skipped)
		}

		addr := cfg.HTTP.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		if cfg.HTTP.JWTSecret == "" {
			logger.Warn("jwt secret not configured, all requests are anonymous")
		}
		srv := server.New(a.feeds, a.catalog, server.Options{
			CORSOrigins: cfg.HTTP.CORSOrigins,
			RateLimit:   cfg.HTTP.RateLimit,
			JWTSecret:   cfg.HTTP.JWTSecret,
			Logger:      logger,
		})
		if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("http server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides http.addr)")
	serveCmd.Flags().StringArrayVar(&serveImports, "import", nil, "catalog JSON dump to load before serving (repeatable)")
}
