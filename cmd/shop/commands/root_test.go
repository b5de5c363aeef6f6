package commands

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop/internal/config"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"serve"},
		{"seed"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
	} {
		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	setupLogger(&config.Config{Env: "production", LogLevel: "warn"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	require.NotNil(t, zerolog.DefaultContextLogger)

	setupLogger(&config.Config{Env: "development", LogLevel: "nonsense"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestOpenPostgresRejectsSQLite(t *testing.T) {
	_, err := openPostgres(&config.Config{DBDriver: "sqlite"})
	assert.ErrorContains(t, err, "postgres only")
}
