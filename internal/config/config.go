// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"firestige.xyz/udex/internal/core"
)

// GlobalConfig represents the top-level configuration.
// Maps to the `udex:` root key in YAML.
type GlobalConfig struct {
	Log        LogConfig         `mapstructure:"log"`
	DataSource DataSourceConfig  `mapstructure:"data_source"`
	Processors []ProcessorConfig `mapstructure:"processors"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
}

// ─── Data Source ───

// DataSourceConfig is the data source a description is registered against
// when the description format does not imply one.
type DataSourceConfig struct {
	Name             string `mapstructure:"name"`
	SourceID         uint16 `mapstructure:"source_id"`
	Instance         uint32 `mapstructure:"instance"`
	FormatIdentifier string `mapstructure:"format_identifier"` // package format tag, e.g. mts.mta
}

// ─── Processors ───

// ProcessorConfig declares a virtual signal producer. Its formats select the
// raw packages it consumes, its ports are the signals it publishes.
type ProcessorConfig struct {
	Name    string                  `mapstructure:"name"`
	Formats []ProcessorFormatConfig `mapstructure:"formats"`
	Ports   []ProcessorPortConfig   `mapstructure:"ports"`
}

// ProcessorFormatConfig identifies one consumed package stream.
type ProcessorFormatConfig struct {
	SourceID         uint16 `mapstructure:"source_id"`
	FormatIdentifier string `mapstructure:"format_identifier"`
	CycleID          uint32 `mapstructure:"cycle_id"`
	VirtualAddress   uint64 `mapstructure:"virtual_address"`
}

// ProcessorPortConfig is one published port and the input it is derived from.
type ProcessorPortConfig struct {
	Name                string `mapstructure:"name"`
	InputCycleID        uint32 `mapstructure:"input_cycle_id"`
	InputVirtualAddress uint64 `mapstructure:"input_virtual_address"`
}

// ─── Metrics ───

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`   // trace / debug / info / warn / error
	Pattern string           `mapstructure:"pattern"` // %time %level %field %msg %caller %func %n
	Time    string           `mapstructure:"time"`    // Go time layout
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains log output destinations.
type LogOutputsConfig struct {
	Console bool             `mapstructure:"console"`
	File    FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure `udex: ...`.
type configRoot struct {
	Udex GlobalConfig `mapstructure:"udex"`
}

// Load loads configuration from file. An empty path yields the defaults.
// The YAML file uses `udex:` as root key; env vars use the UDEX_ prefix
// (e.g., UDEX_LOG_LEVEL).
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Key "udex.log.level" maps to env "UDEX_LOG_LEVEL".
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Udex

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *GlobalConfig {
	cfg, err := Load("")
	if err != nil {
		// defaults are static and always valid
		panic(err)
	}
	return cfg
}

// setDefaults sets default values for configuration.
// All keys use the "udex." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("udex.log.level", "info")
	v.SetDefault("udex.log.pattern", "%time [%level] %field %msg%n")
	v.SetDefault("udex.log.time", "2006-01-02 15:04:05.000")
	v.SetDefault("udex.log.outputs.console", true)
	v.SetDefault("udex.log.outputs.file.enabled", false)
	v.SetDefault("udex.log.outputs.file.path", "/var/log/udex/udex.log")
	v.SetDefault("udex.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("udex.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("udex.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("udex.log.outputs.file.rotation.compress", true)

	// Data source defaults
	v.SetDefault("udex.data_source.name", "SIM VFB")
	v.SetDefault("udex.data_source.source_id", core.SourceIDSimVFB)
	v.SetDefault("udex.data_source.instance", 37)
	v.SetDefault("udex.data_source.format_identifier", "mts.mta")

	// Metrics defaults
	v.SetDefault("udex.metrics.enabled", true)
}

// ValidateAndApplyDefaults validates configuration and applies runtime defaults.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("%w: log level %s (must be trace/debug/info/warn/error)", core.ErrConfigInvalid, cfg.Log.Level)
	}
	if cfg.Log.Outputs.File.Enabled && cfg.Log.Outputs.File.Path == "" {
		return fmt.Errorf("%w: log.outputs.file.path is required when file output is enabled", core.ErrConfigInvalid)
	}

	// ── Data source validation ──
	if cfg.DataSource.Name == "" {
		return fmt.Errorf("%w: data_source.name is required", core.ErrConfigInvalid)
	}
	if core.ParsePackageFormat(cfg.DataSource.FormatIdentifier) == core.PackageFormatUnknown {
		return fmt.Errorf("%w: unknown data_source.format_identifier %q", core.ErrConfigInvalid, cfg.DataSource.FormatIdentifier)
	}

	// ── Processor validation ──
	seen := make(map[string]bool, len(cfg.Processors))
	for i, p := range cfg.Processors {
		if p.Name == "" {
			return fmt.Errorf("%w: processors[%d].name is required", core.ErrConfigInvalid, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate processor %q", core.ErrConfigInvalid, p.Name)
		}
		seen[p.Name] = true
		for j, port := range p.Ports {
			if port.Name == "" {
				return fmt.Errorf("%w: processors[%d].ports[%d].name is required", core.ErrConfigInvalid, i, j)
			}
		}
	}

	return nil
}
