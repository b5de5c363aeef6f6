package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"shop/internal/cache"
	"shop/internal/handlers"
	"shop/internal/observability"
	"shop/internal/router"
	"shop/internal/store"
	"shop/internal/token"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	log.Info().Str("env", cfg.Env).Str("addr", cfg.Addr()).Str("db", cfg.DBDriver).Msg("configuration loaded")

	gdb, closeDB, err := openGORM(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer closeDB()

	if err := observability.RegisterGORMCallbacks(gdb); err != nil {
		return fmt.Errorf("register gorm callbacks: %w", err)
	}

	if cfg.IsDev() {
		if err := seedManager(cmd.Context(), cfg, gdb); err != nil {
			return err
		}
	}

	var valkeyClient *redis.Client
	if cfg.CacheEnabled() {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return fmt.Errorf("connect valkey: %w", err)
		}
		defer valkeyClient.Close()
	} else {
		log.Warn().Msg("valkey not configured, response cache disabled")
	}
	responseCache := cache.NewResponseCache(valkeyClient, cfg.CacheTTL)

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	categoryStore := store.NewCategoryStore(gdb)
	productStore := store.NewProductStore(gdb)
	userStore := store.NewUserStore(gdb)

	r := router.New(tokens, responseCache, cfg.CacheTTL,
		handlers.NewHealth(gdb),
		handlers.NewCategories(categoryStore, responseCache),
		handlers.NewProducts(productStore),
		handlers.NewUsers(userStore, tokens),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped gracefully")
	return nil
}
