// DBIMGTOOL ⸻ internal/config/config.go
// config loading & management

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Tool struct {
		// vendored exiftool directory override; the binary may sit at
		// the top level or nested in an exiftool_files subdirectory
		Dir string `toml:"dir"`
	} `toml:"tool"`

	Output struct {
		// suffix for sibling output files (photo.jpg → photo.clean.jpg)
		Suffix string `toml:"suffix"`
	} `toml:"output"`

	Watch struct {
		Paths         []string `toml:"paths"`
		Extensions    []string `toml:"extensions"`
		SettleSeconds int      `toml:"settle_seconds"`
	} `toml:"watch"`
}

// Load finds and parses the config. Search order: working dir,
// config/, then the user dir.
func Load() (*Config, error) {
	paths := []string{
		"dbimgtool.toml",
		filepath.Join("config", "dbimgtool.toml"),
		filepath.Join(os.Getenv("HOME"), ".dbimgtool", "config.toml"),
	}

	var configPath string
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			configPath = path
			break
		}
	}

	if configPath == "" {
		return nil, fmt.Errorf("dbimgtool.toml not found in search paths")
	}

	return LoadFrom(configPath)
}

// LoadFrom parses a specific config file, filling defaults for
// anything unset
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Output.Suffix == "" {
		cfg.Output.Suffix = ".clean"
	}
	if cfg.Watch.SettleSeconds <= 0 {
		cfg.Watch.SettleSeconds = 2
	}

	return cfg, nil
}

// Default returns the built-in config values
func Default() *Config {
	cfg := &Config{}
	cfg.Output.Suffix = ".clean"
	cfg.Watch.Paths = []string{
		filepath.Join(os.Getenv("HOME"), "Downloads"),
	}
	cfg.Watch.Extensions = []string{
		".jpg", ".jpeg", ".png", ".webp", ".tif", ".tiff", ".bmp",
		".heic", ".heif",
	}
	cfg.Watch.SettleSeconds = 2
	return cfg
}

// Save writes the config to a file
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
