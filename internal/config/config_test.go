package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.GridSize)
	assert.Equal(t, 5, cfg.Rules.CritThreshold)
	assert.Equal(t, 96, cfg.Rules.FumbleThreshold)
	assert.Equal(t, 2, cfg.Rules.CritMultiplier)
	assert.Equal(t, 40, cfg.DefaultCloseCombat)
	assert.Equal(t, 30, cfg.DefaultDodge)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("GRID_SIZE", "20")
	t.Setenv("CRIT_THRESHOLD", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, 20, cfg.GridSize)
	assert.Equal(t, 10, cfg.Rules.CritThreshold)
}

func TestLoad_RejectsInvertedThresholds(t *testing.T) {
	t.Setenv("CRIT_THRESHOLD", "97")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_IgnoresUnparsableInt(t *testing.T) {
	t.Setenv("GRID_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.GridSize)
}
