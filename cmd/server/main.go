package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"voterz/internal/backend"
	"voterz/internal/config"
	"voterz/internal/handler"
	"voterz/internal/logger"
	"voterz/internal/session"
)

const (
	shutdownTimeout = 10 * time.Second
	// maxBackendCalls is the most backend round trips one page makes in
	// sequence: a failed question save loads the election, posts the draft
	// and lists the saved questions.
	maxBackendCalls = 3
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "voterz",
		Short: "Web frontend for running elections",
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	v := viper.New()
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the voting frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load(v, envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log, err := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	api, err := backend.New(backend.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout})
	if err != nil {
		return fmt.Errorf("create backend client: %w", err)
	}

	authKey, encKey, err := cfg.SessionKeys()
	if err != nil {
		return err
	}
	if cfg.EphemeralSession() {
		log.Warn().Msg("SESSION_KEY not set, using a random key; sessions will not survive a restart")
	}
	sessions := session.NewStore(session.Config{
		AuthKey:       authKey,
		EncryptionKey: encKey,
		Secure:        cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr: ":" + strconv.Itoa(cfg.Port),
		Handler: handler.NewRouter(handler.Deps{
			API:       api,
			Sessions:  sessions,
			Logger:    log,
			PublicURL: cfg.PublicURL,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout(cfg.BackendTimeout),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.BackendURL).
			Str("public_url", cfg.PublicURL).
			Msg("server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// writeTimeout leaves room for every sequential backend call of a request
// plus rendering.
func writeTimeout(backend time.Duration) time.Duration {
	return maxBackendCalls*backend + 5*time.Second
}
