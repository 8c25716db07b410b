package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the guildcraft config directory path.
// Uses $XDG_CONFIG_HOME/guildcraft if set, otherwise ~/.config/guildcraft.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "guildcraft")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "guildcraft")
}

// WriteDefault writes a default config.toml pointing at dataDir for the
// reference database, tree, and calibration files.
// Returns the config file path. Skips if config.toml already exists.
func WriteDefault(dataDir string) (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	portableDir := CompressHome(dataDir)

	content := fmt.Sprintf(`[data]
database_path = %q
tree_path = %q

[calibration]
path = %q
type = "guild"
tier = "humid_temperate"

[sampler]
samples = 20000
seed = 20251030
compress = true
`,
		portableDir+"/reference.db",
		portableDir+"/guild_tree.nwk",
		portableDir+"/calibration_guild.json.zst")

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
