package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"gatherly/internal/api"
	"gatherly/internal/auth"
	"gatherly/internal/config"
	"gatherly/internal/store/sqlite"
	"gatherly/pkg/logging"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "gatherly",
		Usage: "Collaborative event planning server.",
		Commands: []*cli.Command{
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logging.Setup(cfg.LogFormat, cfg.LogLevel)

			docStore, err := sqlite.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer docStore.Close()
			slog.Info("Storage initialized", "database", cfg.DBPath)

			users := auth.NewUserStore(docStore)
			authenticator := auth.NewPasswordAuthenticator(users)
			jwt := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

			server := api.NewServer(docStore, users, authenticator, jwt)

			// h2c allows HTTP/2 without TLS behind a terminating proxy.
			handler := h2c.NewHandler(server.Router(), &http2.Server{})
			httpServer := &http.Server{
				Addr:    cfg.Addr,
				Handler: handler,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Server starting", "address", cfg.Addr)
				errCh <- httpServer.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case sig := <-stop:
				slog.Info("Shutting down", "signal", sig.String())
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("shutdown failed: %w", err)
			}
			return nil
		},
	}
}
