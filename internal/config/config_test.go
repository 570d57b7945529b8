package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FRONTIER_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8010, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.SchedulerEnabled)
	assert.Equal(t, int64(0), cfg.SimulationSeed, "seed defaults to time-based")
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("FRONTIER_DATA_DIR", t.TempDir())
	t.Setenv("FRONTIER_PORT", "9001")
	t.Setenv("FRONTIER_SIMULATION_SEED", "42")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, int64(42), cfg.SimulationSeed)
	assert.True(t, cfg.DevMode)
}
