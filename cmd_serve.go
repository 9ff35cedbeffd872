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

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"crowdfund/internal/api"
	"crowdfund/internal/cache"
	"crowdfund/internal/repository"
	"crowdfund/internal/service"
	"crowdfund/internal/storage"
	"crowdfund/pkg/config"
	"crowdfund/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

// bootstrap loads config, sets up logging and opens the database.
func bootstrap() (*config.Config, *storage.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	db, err := storage.Open(cfg.DB.Driver, cfg.DB.DataSource())
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// tokenCache returns the Redis token cache when one is configured and
// reachable, otherwise a no-op cache.
func tokenCache(ctx context.Context, cfg *config.Config) cache.TokenCache {
	if cfg.Redis.Addr == "" {
		return cache.Nop{}
	}
	rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.L.Warn("token cache disabled", "error", err)
		return cache.Nop{}
	}
	logger.L.Info("token cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TokenTTL.String())
	return cache.NewRedisTokenCache(rdb, cfg.Redis.TokenTTL)
}

func serve(ctx context.Context) error {
	// Config, logger and database connection
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	// Create or update tables from the models
	if err := db.Migrate(); err != nil {
		return err
	}

	// Redis when configured, otherwise every lookup goes to the token table
	tokens := tokenCache(ctx, cfg)
	defer tokens.Close()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories -> services -> router
	services := service.NewServices(repository.NewRepositories(db), tokens)
	router := api.NewRouter(services)

	// CORS wraps the whole engine so preflight requests never reach gin
	handler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})(router)

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Serve until the listener fails or a shutdown signal arrives
	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("server listening", "addr", cfg.Server.Address, "env", cfg.App.Env, "db", cfg.DB.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	// Let in-flight requests finish
	logger.L.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
