// Package config provides configuration loading and management.
package config

import (
	"os"

	"github.com/user/nalshow/pkg/orchestrator"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for nalshow.
type Config struct {
	// Input/Output
	InputPath  string `yaml:"input"`
	ReportPath string `yaml:"report"`

	// Decoder
	Backend    string `yaml:"backend"`
	FFmpegPath string `yaml:"ffmpeg_path"`

	// Dump
	OutDir      string `yaml:"out_dir"`
	Annotate    bool   `yaml:"annotate"`
	ScaleWidth  int    `yaml:"scale_width"`
	ScaleHeight int    `yaml:"scale_height"`

	// Stream transport
	Stream StreamConfig `yaml:"stream"`

	// Discovery
	Discovery DiscoveryConfig `yaml:"discovery"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// StreamConfig represents the UDP NAL transport settings.
type StreamConfig struct {
	Port       int `yaml:"port"`
	IntervalMs int `yaml:"interval_ms"`
}

// DiscoveryConfig represents mDNS discovery settings.
type DiscoveryConfig struct {
	Instance  string `yaml:"instance"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Decoder
		Backend: "auto",

		// Dump
		OutDir:   "./nalshow-out",
		Annotate: true,

		// Stream transport
		Stream: StreamConfig{
			Port:       9000,
			IntervalMs: 33,
		},

		// Discovery
		Discovery: DiscoveryConfig{
			TimeoutMs: 5000,
		},

		// Logging
		LogLevel: "info",

		// Debug
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config. Non-empty
// input and report arguments take precedence over the configured paths.
func (c Config) ToOrchestratorConfig(input, report string) orchestrator.Config {
	if input == "" {
		input = c.InputPath
	}
	if report == "" {
		report = c.ReportPath
	}
	return orchestrator.Config{
		InputPath:  input,
		ReportPath: report,
		Backend:    c.Backend,
	}
}
