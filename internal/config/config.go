package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all guildcraft configuration.
type Config struct {
	Data        DataConfig        `toml:"data"`
	Calibration CalibrationConfig `toml:"calibration"`
	Sampler     SamplerConfig     `toml:"sampler"`
}

// DataConfig locates the read-only reference inputs.
type DataConfig struct {
	DatabasePath string `toml:"database_path"`
	TreePath     string `toml:"tree_path"`
}

// CalibrationConfig selects the percentile table scoring runs against.
type CalibrationConfig struct {
	Path string `toml:"path"`
	Type string `toml:"type"` // "pair" or "guild"
	Tier string `toml:"tier"`
}

// SamplerConfig tunes calibration runs.
type SamplerConfig struct {
	Samples  int   `toml:"samples"`
	Seed     int64 `toml:"seed"`
	Compress bool  `toml:"compress"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			DatabasePath: "~/guildcraft/reference.db",
			TreePath:     "~/guildcraft/guild_tree.nwk",
		},
		Calibration: CalibrationConfig{
			Path: "~/guildcraft/calibration_guild.json.zst",
			Type: "guild",
			Tier: "humid_temperate",
		},
		Sampler: SamplerConfig{
			Samples:  20000,
			Seed:     20251030,
			Compress: true,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	paths := configPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	// Expand ~ in paths
	cfg.Data.DatabasePath = expandHome(cfg.Data.DatabasePath)
	cfg.Data.TreePath = expandHome(cfg.Data.TreePath)
	cfg.Calibration.Path = expandHome(cfg.Calibration.Path)

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "guildcraft", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "guildcraft", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
