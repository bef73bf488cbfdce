package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Config is the tool configuration loaded from TOML.
type Config struct {
	// OutputDir is the default export destination when neither the
	// command line nor the context bundle names one.
	OutputDir string `toml:"output_dir"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	Export Export `toml:"export"`
}

// Export holds per-format defaults, overridable per call with --option.
type Export struct {
	Tokenization   string `toml:"tokenization"`
	TagScheme      string `toml:"tag_scheme"`
	TextGridFormat string `toml:"textgrid_format"`
	Language       string `toml:"language"`
}

// SampleConfig returns the embedded, fully commented sample configuration.
func SampleConfig() string { return sampleConfig }

// DefaultConfigPath returns the per-user config location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "annoexport", "config.toml"), nil
}

// Load reads the configuration at path, or the default location when path is
// empty. A missing file yields the defaults. The returned string is the
// resolved path and the bool reports whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

func (c *Config) normalize() error {
	expanded, err := expandPath(c.OutputDir)
	if err != nil {
		return err
	}
	c.OutputDir = expanded
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Export.Tokenization = strings.ToLower(strings.TrimSpace(c.Export.Tokenization))
	c.Export.TagScheme = strings.ToLower(strings.TrimSpace(c.Export.TagScheme))
	c.Export.TextGridFormat = strings.ToLower(strings.TrimSpace(c.Export.TextGridFormat))
	c.Export.Language = strings.TrimSpace(c.Export.Language)
	return nil
}

func expandPath(path string) (string, error) {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
