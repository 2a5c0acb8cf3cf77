package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectDisplayServer(t *testing.T) {
	withSocket := t.TempDir()
	os.WriteFile(filepath.Join(withSocket, "X0"), nil, 0644)
	empty := t.TempDir()

	tests := []struct {
		name    string
		wayland string
		display string
		dir     string
		want    DisplayServer
	}{
		{"wayland wins", "wayland-0", ":0", withSocket, DisplayServerWayland},
		{"DISPLAY set", "", ":1", empty, DisplayServerX11},
		{"socket only", "", "", withSocket, DisplayServerX11},
		{"nothing", "", "", empty, DisplayServerUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WAYLAND_DISPLAY", tt.wayland)
			t.Setenv("DISPLAY", tt.display)
			if got := DetectDisplayServer(tt.dir); got != tt.want {
				t.Errorf("DetectDisplayServer = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSelectBackend(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("DISPLAY", ":0")

	tests := []struct {
		backend string
		want    string
		wantErr bool
	}{
		{backend: "x11", want: "x11"},
		{backend: "auto", want: "x11"},
		{backend: "", want: "x11"},
		{backend: "mir", wantErr: true},
	}
	for _, tt := range tests {
		cfg := DefaultAppConfig()
		cfg.Backend = tt.backend
		b, err := SelectBackend(cfg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SelectBackend(%q) succeeded", tt.backend)
			}
			continue
		}
		if err != nil {
			t.Errorf("SelectBackend(%q): %v", tt.backend, err)
			continue
		}
		if b.Name() != tt.want {
			t.Errorf("SelectBackend(%q) = %s, want %s", tt.backend, b.Name(), tt.want)
		}
	}
}

func TestSelectBackendUnknownLayout(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Backend = "evdev"
	cfg.Layout = "dvorak-klingon"
	if _, err := SelectBackend(cfg); err == nil {
		t.Error("evdev backend accepted an unknown layout")
	}
}
