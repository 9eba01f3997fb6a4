package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	SnapshotDB string          `mapstructure:"snapshot_db"`
	Ripgrep    string          `mapstructure:"ripgrep"`
	Color      bool            `mapstructure:"color"`
	Workspace  WorkspaceConfig `mapstructure:"workspace"`
	Matching   MatchingConfig  `mapstructure:"matching"`
}

type WorkspaceConfig struct {
	ReadDirs     []string `mapstructure:"read_dirs"`
	WriteDirs    []string `mapstructure:"write_dirs"`
	DenyPatterns []string `mapstructure:"deny_patterns"`
}

type MatchingConfig struct {
	ContextSimilarity float64 `mapstructure:"context_similarity"`
}

func Load() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}
	return LoadFrom(filepath.Join(configDir, "slashbot"))
}

// LoadFrom reads config.yaml from configPath or the current directory,
// applying defaults for anything unset.
func LoadFrom(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("snapshot_db", defaultSnapshotDB())
	v.SetDefault("ripgrep", "rg")
	v.SetDefault("color", true)
	v.SetDefault("matching.context_similarity", 0.5)

	// Read config file (optional - won't error if missing)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Matching.ContextSimilarity < 0 || cfg.Matching.ContextSimilarity > 1 {
		return nil, fmt.Errorf("matching.context_similarity must be between 0 and 1, got %g", cfg.Matching.ContextSimilarity)
	}

	for i, dir := range cfg.Workspace.ReadDirs {
		cfg.Workspace.ReadDirs[i] = expandEnv(dir)
	}
	for i, dir := range cfg.Workspace.WriteDirs {
		cfg.Workspace.WriteDirs[i] = expandEnv(dir)
	}
	cfg.SnapshotDB = expandEnv(cfg.SnapshotDB)

	return &cfg, nil
}

func defaultSnapshotDB() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "snapshots.db"
	}
	return filepath.Join(configDir, "slashbot", "snapshots.db")
}

// expandEnv expands ${VAR} or $VAR in a string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "slashbot", "config.yaml"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
