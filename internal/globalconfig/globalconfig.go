package globalconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwbox/burnish/internal/utils/pathutils"

	"gopkg.in/yaml.v3"
)

type PersistentConfig struct {
	CatalogFile string `yaml:"catalog_file"`
	CacheDir    string `yaml:"cache_dir,omitempty"`
}

const (
	configDir  = ".config/burnish"
	configFile = "config.yml"
)

func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

func Load() (*PersistentConfig, error) {
	fullConfigDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(fullConfigDir, configFile)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no configuration found. Please run 'burnish init' first")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg PersistentConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	absPath, err := pathutils.ToAbsolutePath(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog file path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("catalog file not found at %s: %w", cfg.CatalogFile, err)
	}

	cfg.CatalogFile = absPath
	return &cfg, nil
}

func (c *PersistentConfig) Save() error {
	fullConfigDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(fullConfigDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	homePath, err := pathutils.ToHomePathFormat(c.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to convert to home path format: %w", err)
	}

	out := PersistentConfig{CatalogFile: homePath, CacheDir: c.CacheDir}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(fullConfigDir, configFile)
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
