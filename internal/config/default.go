package config

import (
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	// APIBaseURL is the GitHub API root used for release listings.
	APIBaseURL string
	// RequestTimeout bounds manifest and listing calls.
	RequestTimeout time.Duration
	// DownloadTimeout bounds one full asset transfer.
	DownloadTimeout time.Duration
	// CacheRoot is where verified artifacts and their sidecars live.
	// Empty means the OS user cache dir + "burnish".
	CacheRoot string
	// MaxDownloadAttempts bounds transport retries per candidate.
	MaxDownloadAttempts int
}

func Default() Config {
	return Config{
		APIBaseURL:          "https://api.github.com",
		RequestTimeout:      30 * time.Second,
		DownloadTimeout:     30 * time.Minute,
		MaxDownloadAttempts: 2,
	}
}

// ResolveCacheRoot returns the effective cache directory, creating it.
func (c Config) ResolveCacheRoot() (string, error) {
	root := c.CacheRoot
	if root == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		root = filepath.Join(base, "burnish")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", err
	}
	return root, nil
}
