// Package cli provides configuration loading and terminal styling for
// the voxid command.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the configuration and data directory name,
	// created under the user's home directory.
	DefaultBaseDir = ".voxid"

	// DefaultConfigFile is the configuration filename.
	DefaultConfigFile = "config.yaml"

	// EnvConfig overrides the config file location.
	EnvConfig = "VOXID_CONFIG"
)

// Config holds the voxid settings. Zero fields fall back to defaults so
// a missing or partial config file is fine.
type Config struct {
	// DataDir is the base directory for profiles, the sample log, and
	// the capture archive. Defaults to ~/.voxid.
	DataDir string `yaml:"data_dir,omitempty"`

	// ProfilePath overrides the profile document location.
	// Defaults to {data_dir}/voice_profiles.json.
	ProfilePath string `yaml:"profile_path,omitempty"`

	// ArchiveDir overrides the capture archive root.
	// Defaults to {data_dir}/audio_samples.
	ArchiveDir string `yaml:"archive_dir,omitempty"`

	// SampleLogDir overrides the sample log database directory.
	// Defaults to {data_dir}/samples.
	SampleLogDir string `yaml:"sample_log_dir,omitempty"`

	// SampleRate is the stored capture rate in Hz. Defaults to 16000.
	SampleRate int `yaml:"sample_rate,omitempty"`

	// Duration is the capture length per sample in seconds.
	// Defaults to 3.
	Duration float64 `yaml:"duration,omitempty"`

	// Threshold is the minimum similarity for identification.
	// Defaults to 0.65.
	Threshold float64 `yaml:"threshold,omitempty"`

	// NameThreshold is the fuzzy name-collision threshold.
	// Defaults to 0.8.
	NameThreshold float64 `yaml:"name_threshold,omitempty"`

	// Alpha is the adaptive refresh blend factor. Defaults to 0.2;
	// negative disables adaptive refreshes.
	Alpha float64 `yaml:"alpha,omitempty"`

	// Device is the input device index; -1 selects the backend default.
	Device int `yaml:"device,omitempty"`
}

// DefaultPath returns the config file location, honoring EnvConfig.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, DefaultBaseDir, DefaultConfigFile)
}

// Load reads the config file at path (or DefaultPath when empty).
// A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cli: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to path (or DefaultPath when empty), creating
// parent directories as needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.DataDir = filepath.Join(home, DefaultBaseDir)
	}
	if c.ProfilePath == "" {
		c.ProfilePath = filepath.Join(c.DataDir, "voice_profiles.json")
	}
	if c.ArchiveDir == "" {
		c.ArchiveDir = filepath.Join(c.DataDir, "audio_samples")
	}
	if c.SampleLogDir == "" {
		c.SampleLogDir = filepath.Join(c.DataDir, "samples")
	}
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.Duration <= 0 {
		c.Duration = 3
	}
	if c.Threshold == 0 {
		c.Threshold = 0.65
	}
	if c.NameThreshold == 0 {
		c.NameThreshold = 0.8
	}
	if c.Alpha == 0 {
		c.Alpha = 0.2
	}
	if c.Device == 0 {
		c.Device = -1
	}
}
