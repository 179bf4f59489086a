package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Device.Port != 9123 {
		t.Errorf("Port = %d, want 9123", cfg.Device.Port)
	}
	if cfg.Device.PushTimeout.Duration() != time.Second {
		t.Errorf("PushTimeout = %v, want 1s", cfg.Device.PushTimeout.Duration())
	}
	if cfg.Device.FetchTimeout.Duration() != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", cfg.Device.FetchTimeout.Duration())
	}
	if cfg.Control.Step != 10 || cfg.Control.FineStep != 1 {
		t.Errorf("steps = %d/%d, want 10/1", cfg.Control.Step, cfg.Control.FineStep)
	}
	if cfg.Control.SyncMode != SyncBlocking {
		t.Errorf("SyncMode = %q, want %q", cfg.Control.SyncMode, SyncBlocking)
	}
	if cfg.Log.Level != "info" || cfg.Log.File != "keylight.log" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.History.Path != "" {
		t.Errorf("History.Path = %q, want empty", cfg.History.Path)
	}
	if cfg.History.Retention.Duration() != 30*24*time.Hour {
		t.Errorf("History.Retention = %v, want 720h", cfg.History.Retention.Duration())
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
device:
  address: 10.0.0.5
  push_timeout: 500ms
control:
  step: 5
  sync_mode: async
log:
  level: debug
history:
  path: /tmp/keylight.sqlite
  retention: 48h
keymap:
  script: keys.lua
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Device.Address != "10.0.0.5" {
		t.Errorf("Address = %q", cfg.Device.Address)
	}
	if cfg.Device.PushTimeout.Duration() != 500*time.Millisecond {
		t.Errorf("PushTimeout = %v", cfg.Device.PushTimeout.Duration())
	}
	if cfg.Control.Step != 5 || cfg.Control.FineStep != 1 {
		t.Errorf("steps = %d/%d, want 5/1", cfg.Control.Step, cfg.Control.FineStep)
	}
	if cfg.Control.SyncMode != SyncAsync {
		t.Errorf("SyncMode = %q", cfg.Control.SyncMode)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	if cfg.History.Retention.Duration() != 48*time.Hour {
		t.Errorf("History.Retention = %v, want 48h", cfg.History.Retention.Duration())
	}
	if cfg.History.Path != "/tmp/keylight.sqlite" || cfg.Keymap.Script != "keys.lua" {
		t.Errorf("History/Keymap = %q/%q", cfg.History.Path, cfg.Keymap.Script)
	}
}

func TestParse_BadDuration(t *testing.T) {
	if _, err := Parse([]byte("device:\n  push_timeout: soon\n")); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("KEYLIGHT_TEST_IP", "192.168.7.7")

	cfg, err := Parse([]byte("device:\n  address: ${KEYLIGHT_TEST_IP}\nlog:\n  level: ${KEYLIGHT_TEST_LEVEL:warn}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Device.Address != "192.168.7.7" {
		t.Errorf("Address = %q", cfg.Device.Address)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, want default from expression", cfg.Log.Level)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("device:\n  address: keylight.local\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Device.Address != "keylight.local" {
		t.Errorf("Address = %q", cfg.Device.Address)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "missing_address", mutate: func(c *Config) { c.Device.Address = "" }, wantErr: true},
		{name: "url_address", mutate: func(c *Config) { c.Device.Address = "http://10.0.0.5" }, wantErr: true},
		{name: "negative_step", mutate: func(c *Config) { c.Control.Step = -1 }, wantErr: true},
		{name: "zero_fine_step", mutate: func(c *Config) { c.Control.FineStep = 0 }, wantErr: true},
		{name: "bad_sync_mode", mutate: func(c *Config) { c.Control.SyncMode = "eventually" }, wantErr: true},
		{name: "negative_retention", mutate: func(c *Config) { c.History.Retention = Duration(-time.Hour) }, wantErr: true},
		{name: "async", mutate: func(c *Config) { c.Control.SyncMode = SyncAsync }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Device.Address = "10.0.0.5"
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
