// Package config loads the meetscribe CLI configuration.
//
// Configuration lives in a single YAML file under os.UserConfigDir():
//
//	~/Library/Application Support/meetscribe/config.yaml   (macOS)
//	~/.config/meetscribe/config.yaml                       (Linux)
//	%AppData%/meetscribe/config.yaml                       (Windows)
//
// A missing file is not an error; every field has a usable default.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	appDir     = "meetscribe"
	configFile = "config.yaml"
)

// Config is the full CLI configuration.
type Config struct {
	// OutputDir is the artifact root. Default: "output" in the working
	// directory.
	OutputDir string `yaml:"output_dir"`

	// Align reconciles streams of unequal duration: "trim" (default) or
	// "pad".
	Align string `yaml:"align"`

	// GapTolerance is the diarization merge gap in seconds.
	GapTolerance float64 `yaml:"gap_tolerance"`

	// MaxSpeakers caps the diarization speaker count.
	MaxSpeakers int `yaml:"max_speakers"`

	// StopGraceMS is the capture quiesce period in milliseconds.
	StopGraceMS int `yaml:"stop_grace_ms"`

	// Transcriber selects and configures the speech-to-text backend.
	Transcriber Transcriber `yaml:"transcriber"`

	// Path is where the config was loaded from, for diagnostics.
	Path string `yaml:"-"`
}

// Transcriber configures the speech-to-text backend.
type Transcriber struct {
	// Backend is "openai", "faster-whisper", or "none".
	Backend string `yaml:"backend"`

	// APIKey authenticates the openai backend. Falls back to the
	// OPENAI_API_KEY environment variable.
	APIKey string `yaml:"api_key"`

	// BaseURL points the openai backend at a compatible server.
	BaseURL string `yaml:"base_url"`

	// Model names the transcription model.
	Model string `yaml:"model"`

	// Language forces a transcription language; empty autodetects.
	Language string `yaml:"language"`

	// Device selects faster-whisper compute: auto|cpu|cuda.
	Device string `yaml:"device"`

	// Python is the interpreter for the faster-whisper backend.
	Python string `yaml:"python"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputDir: "output",
		Align:     "trim",
		Transcriber: Transcriber{
			Backend: "openai",
		},
	}
}

// Load reads the configuration from the default location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine config directory: %w", err)
	}
	return LoadFrom(filepath.Join(base, appDir, configFile))
}

// LoadFrom reads the configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.Path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveAPIKey returns the configured API key, falling back to the
// OPENAI_API_KEY environment variable.
func (t Transcriber) ResolveAPIKey() string {
	if t.APIKey != "" {
		return t.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}
