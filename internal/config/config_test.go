package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("POSTGRES_USER", "postgres")
	t.Setenv("POSTGRES_PASSWORD", "postgres")
	t.Setenv("POSTGRES_DB", "app")
	t.Setenv("POSTGRES_HOST", "localhost")
}

// ライフサイクル系は未設定なら既定値
func TestLoad_LifecycleDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 3*time.Hour, cfg.AbandonAfter)
	assert.Equal(t, 7*24*time.Hour, cfg.RemoveAfter)
	assert.Equal(t, 30*time.Minute, cfg.SweepInterval)
}

func TestLoad_LifecycleOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CART_ABANDON_AFTER", "90m")
	t.Setenv("CART_REMOVE_AFTER", "48h")
	t.Setenv("CART_SWEEP_INTERVAL", "5m")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.AbandonAfter)
	assert.Equal(t, 48*time.Hour, cfg.RemoveAfter)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CART_ABANDON_AFTER", "three hours")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")

	_, err := Load()
	assert.Error(t, err)
}
