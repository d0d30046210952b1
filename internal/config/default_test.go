package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://api.github.com", cfg.APIBaseURL)
	assert.NotZero(t, cfg.RequestTimeout)
	assert.NotZero(t, cfg.DownloadTimeout)
	assert.Equal(t, 2, cfg.MaxDownloadAttempts)
}

func TestResolveCacheRoot_Explicit(t *testing.T) {
	cfg := Default()
	cfg.CacheRoot = filepath.Join(t.TempDir(), "nested", "cache")

	got, err := cfg.ResolveCacheRoot()
	require.NoError(t, err)
	assert.Equal(t, cfg.CacheRoot, got)

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
