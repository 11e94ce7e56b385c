package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9102", cfg.MetricsAddr)
	assert.Equal(t, 3, cfg.Registration.ExpirationDays)
	assert.Equal(t, 1, cfg.Registration.SpeedupFactor)
	assert.Equal(t, time.Minute, cfg.Registration.SweepInterval)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ENROLLD_EXPIRATION_DAYS", "7")
	t.Setenv("ENROLLD_SPEEDUP_FACTOR", "86400")
	t.Setenv("ENROLLD_SWEEP_INTERVAL", "30s")
	t.Setenv("ENROLLD_METRICS_ADDR", ":9999")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.MetricsAddr)
	assert.Equal(t, 7, cfg.Registration.ExpirationDays)
	assert.Equal(t, 86400, cfg.Registration.SpeedupFactor)
	assert.Equal(t, 30*time.Second, cfg.Registration.SweepInterval)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Run("non-numeric expiration", func(t *testing.T) {
		t.Setenv("ENROLLD_EXPIRATION_DAYS", "soon")
		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("zero expiration", func(t *testing.T) {
		t.Setenv("ENROLLD_EXPIRATION_DAYS", "0")
		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("negative speedup", func(t *testing.T) {
		t.Setenv("ENROLLD_SPEEDUP_FACTOR", "-2")
		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("bad sweep interval", func(t *testing.T) {
		t.Setenv("ENROLLD_SWEEP_INTERVAL", "whenever")
		_, err := FromEnv()
		require.Error(t, err)
	})
}
