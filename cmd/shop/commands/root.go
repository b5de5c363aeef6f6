// Package commands implements the shop command line: the API server and
// the database maintenance subcommands.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"shop/internal/config"
	"shop/internal/database"
)

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "shop",
	Short: "Shop API - categories, products and users over REST",
	Long: `Shop serves a small e-commerce REST API under /v1.

Configuration is read from the environment and an optional .env file.
Without a subcommand the API server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and installs the global logger. Every
// subcommand starts here.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	setupLogger(cfg)
	return cfg, nil
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	// Code that logs through zerolog.Ctx outside a request falls back here.
	zerolog.DefaultContextLogger = &log.Logger
}

// openPostgres connects to PostgreSQL and returns the pool.
func openPostgres(cfg *config.Config) (*sql.DB, error) {
	if cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("migrations are managed by goose on postgres only; %s schemas are created at startup", cfg.DBDriver)
	}
	return database.Connect(cfg.DSN())
}

// openGORM opens the configured database, migrated and ready for the
// stores. The returned close function releases the underlying pool.
func openGORM(cfg *config.Config) (*gorm.DB, func(), error) {
	if cfg.DBDriver == "sqlite" {
		gdb, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		return gdb, func() { sqlDB.Close() }, nil
	}

	sqlDB, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	gdb, err := database.OpenPostgres(sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return gdb, func() { sqlDB.Close() }, nil
}

func seedManager(ctx context.Context, cfg *config.Config, gdb *gorm.DB) error {
	return database.Seed(ctx, gdb, cfg.SeedUsername, cfg.SeedPassword)
}
