package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := Decode(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 4000, cfg.Server.Port)
		assert.Equal(t, 14, cfg.Loans.PeriodDays)
		assert.Equal(t, 10.0, cfg.Loans.FinePerDay)
		assert.Equal(t, "library/books", cfg.S3.Folder)
	})

	t.Run("file values win over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := []byte("server:\n  port: 8080\nloans:\n  period_days: 21\n  fine_per_day: 2.5\n")
		require.NoError(t, os.WriteFile(path, content, 0o644))
		cfg, err := Decode(path)
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 21, cfg.Loans.PeriodDays)
		assert.Equal(t, 2.5, cfg.Loans.FinePerDay)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o644))
		t.Setenv("PORT", "9090")
		cfg, err := Decode(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
	})
}
