package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	cfg, err := LoadAppConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultAppConfig()) {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadAppConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "backend: evdev\npulse_ms: 250\nallowed_labels: [a, b]\n")

	cfg, err := LoadAppConfig(dir)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.Backend != "evdev" {
		t.Errorf("Backend = %q, want evdev", cfg.Backend)
	}
	if cfg.Pulse() != 250*time.Millisecond {
		t.Errorf("Pulse = %s, want 250ms", cfg.Pulse())
	}
	if a := cfg.AllowList(); len(a) != 2 || !a["a"] || !a["b"] {
		t.Errorf("AllowList = %v, want a and b", a)
	}
	if cfg.Columns != 10 || cfg.SocketDir != "/tmp/.X11-unix" {
		t.Error("unset fields lost their defaults")
	}
}

func TestLoadAppConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "backend: [x11\n", "parse config.yml"},
		{"unknown backend", "backend: wayland\n", "backend must be"},
		{"unknown colour", "colour: sometimes\n", "colour must be"},
		{"zero pulse", "pulse_ms: 0\n", "pulse_ms must be positive"},
		{"negative columns", "columns: -1\n", "columns must be positive"},
		{"zero shutdown timeout", "shutdown_timeout_ms: 0\n", "shutdown_timeout_ms must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := LoadAppConfig(dir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEmbeddedDefaultMatchesDefaults(t *testing.T) {
	data, err := defaultConfigs.ReadFile("defaults/config.yml")
	if err != nil {
		t.Fatal(err)
	}
	cfg := &AppConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		t.Fatalf("parse embedded config: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultAppConfig()) {
		t.Errorf("embedded config.yml = %+v\nDefaultAppConfig = %+v", cfg, DefaultAppConfig())
	}
}

func TestInitConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "keypresenter")
	if err := initConfig(dir); err != nil {
		t.Fatalf("initConfig: %v", err)
	}
	if _, err := LoadAppConfig(dir); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}

	writeConfig(t, dir, "columns: 3\n")
	if err := initConfig(dir); err != nil {
		t.Fatalf("second initConfig: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "config.yml"))
	if string(data) != "columns: 3\n" {
		t.Errorf("initConfig overwrote an existing file: %q", data)
	}
}
