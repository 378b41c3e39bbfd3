package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"firestige.xyz/udex/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
udex:
  log:
    level: "debug"
    outputs:
      console: false
      file:
        enabled: true
        path: "/tmp/udex.log"
  data_source:
    name: "ADCU"
    source_id: 6403
    instance: 0
    format_identifier: "mts.mta.sw"
  processors:
    - name: "ObjectFusion"
      formats:
        - source_id: 6403
          format_identifier: "mts.mta.sw"
          cycle_id: 209
          virtual_address: 0x8004C000
      ports:
        - name: "FusedObjects"
          input_cycle_id: 209
          input_virtual_address: 0x8004C000
  metrics:
    enabled: false
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.Outputs.Console {
		t.Error("Expected console output disabled")
	}
	if !cfg.Log.Outputs.File.Enabled || cfg.Log.Outputs.File.Path != "/tmp/udex.log" {
		t.Errorf("Unexpected file output %+v", cfg.Log.Outputs.File)
	}
	if cfg.Log.Outputs.File.Rotation.MaxSizeMB != 100 {
		t.Errorf("Expected default rotation max size 100, got %d", cfg.Log.Outputs.File.Rotation.MaxSizeMB)
	}
	if cfg.DataSource.Name != "ADCU" || cfg.DataSource.SourceID != 6403 {
		t.Errorf("Unexpected data source %+v", cfg.DataSource)
	}
	if cfg.DataSource.FormatIdentifier != "mts.mta.sw" {
		t.Errorf("Expected format mts.mta.sw, got %s", cfg.DataSource.FormatIdentifier)
	}
	if len(cfg.Processors) != 1 {
		t.Fatalf("Expected 1 processor, got %d", len(cfg.Processors))
	}
	p := cfg.Processors[0]
	if p.Formats[0].VirtualAddress != 0x8004C000 || p.Formats[0].CycleID != 209 {
		t.Errorf("Unexpected processor format %+v", p.Formats[0])
	}
	if p.Ports[0].Name != "FusedObjects" {
		t.Errorf("Expected port FusedObjects, got %s", p.Ports[0].Name)
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics disabled")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}
	if !cfg.Log.Outputs.Console {
		t.Error("Expected console output enabled by default")
	}
	if cfg.DataSource.Name != "SIM VFB" {
		t.Errorf("Expected default data source SIM VFB, got %s", cfg.DataSource.Name)
	}
	if cfg.DataSource.SourceID != core.SourceIDSimVFB || cfg.DataSource.Instance != 37 {
		t.Errorf("Unexpected default source %d/%d", cfg.DataSource.SourceID, cfg.DataSource.Instance)
	}
	if cfg.DataSource.FormatIdentifier != "mts.mta" {
		t.Errorf("Expected default format mts.mta, got %s", cfg.DataSource.FormatIdentifier)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("UDEX_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "udex:\n  log:\n    level: debug\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected env override warn, got %s", cfg.Log.Level)
	}
}

func TestLoadInvalidLogLevel(t *testing.T) {
	_, err := Load(writeConfig(t, "udex:\n  log:\n    level: verbose\n"))
	if err == nil {
		t.Fatal("Expected error for invalid log level")
	}
	if !errors.Is(err, core.ErrConfigInvalid) {
		t.Errorf("Expected ErrConfigInvalid, got %v", err)
	}
}

func TestLoadInvalidFormatIdentifier(t *testing.T) {
	_, err := Load(writeConfig(t, "udex:\n  data_source:\n    format_identifier: mts.bogus\n"))
	if !errors.Is(err, core.ErrConfigInvalid) {
		t.Errorf("Expected ErrConfigInvalid, got %v", err)
	}
}

func TestLoadDuplicateProcessor(t *testing.T) {
	_, err := Load(writeConfig(t, `
udex:
  processors:
    - name: "A"
    - name: "A"
`))
	if !errors.Is(err, core.ErrConfigInvalid) {
		t.Errorf("Expected ErrConfigInvalid, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg == nil || cfg.Log.Time == "" || cfg.Log.Pattern == "" {
		t.Fatalf("Unexpected default config %+v", cfg)
	}
}
