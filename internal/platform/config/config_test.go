package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults apply when env is empty", func(t *testing.T) {
		cfg := FromEnv()

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "https://airbridge.hackclub.com/v0.2", cfg.Airbridge.BaseURL)
		assert.Equal(t, "Boba Club Dashboard", cfg.Airbridge.BaseName)
		assert.Equal(t, 8*time.Second, cfg.Airbridge.Timeout)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Empty(t, cfg.AdminSlackIDs)
	})

	t.Run("admin slack IDs parse as trimmed comma list", func(t *testing.T) {
		t.Setenv("ADMIN_SLACK_IDS", "U01ABC, U02DEF ,,U03GHI")

		cfg := FromEnv()

		assert.Equal(t, []string{"U01ABC", "U02DEF", "U03GHI"}, cfg.AdminSlackIDs)
	})

	t.Run("upstream timeout honors override and rejects garbage", func(t *testing.T) {
		t.Setenv("UPSTREAM_TIMEOUT", "2s")
		assert.Equal(t, 2*time.Second, FromEnv().Airbridge.Timeout)

		t.Setenv("UPSTREAM_TIMEOUT", "not-a-duration")
		assert.Equal(t, 8*time.Second, FromEnv().Airbridge.Timeout)
	})
}
