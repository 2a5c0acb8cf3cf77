package main

import (
	"errors"
	"fmt"
	"log"
	"os"
)

// ErrBackendNotAvailable is returned when a backend cannot be used on the current system.
var ErrBackendNotAvailable = errors.New("backend not available on this system")

// RawKind classifies a raw event read from a device.
type RawKind int

const (
	RawOther RawKind = iota
	RawKeyPress
	RawKeyRelease
)

// RawEvent is an undecoded event as read from one device. Extension is the
// opcode or event class the event belongs to; Detail is the device keycode.
type RawEvent struct {
	Extension uint8
	Kind      RawKind
	Detail    uint32
}

// Device is one opened raw-input source that has been subscribed to raw key
// press and release events.
type Device interface {
	// Name identifies the source in logs (":0", "/dev/input/event3").
	Name() string

	// Extension is the identifier that marks relevant raw events on this source.
	Extension() uint8

	// Keymap returns the group 0, level 0 keysym of every keycode, in keycode order.
	Keymap() []Keysym

	// Keysym resolves a keycode through the source's current layout
	// (group 0, level 0). It returns NoSymbol for unmapped keycodes.
	Keysym(keycode uint32) Keysym

	// Next blocks until the next raw event arrives or the device fails.
	Next() (RawEvent, error)

	// Close releases the source. A blocked Next returns an error afterwards.
	Close() error
}

// Backend discovers raw-input sources on one platform.
type Backend interface {
	// Name returns a human-readable name for this backend (for logging).
	Name() string

	// OpenDevices opens and subscribes every reachable source. Sources that
	// cannot be opened are logged and skipped; the result may be empty.
	OpenDevices() []Device
}

// DisplayServer represents the type of display server in use
type DisplayServer int

const (
	DisplayServerUnknown DisplayServer = iota
	DisplayServerX11
	DisplayServerWayland
)

func (ds DisplayServer) String() string {
	switch ds {
	case DisplayServerX11:
		return "X11"
	case DisplayServerWayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// DetectDisplayServer determines which display server the session runs.
func DetectDisplayServer(socketDir string) DisplayServer {
	// Wayland first: X sockets may exist for XWayland, but raw XInput
	// events there only cover X clients.
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	if os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	if entries, err := os.ReadDir(socketDir); err == nil && len(entries) > 0 {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// SelectBackend chooses the backend named in the config, or picks one from
// the detected display server when the config says "auto".
func SelectBackend(cfg *AppConfig) (Backend, error) {
	switch cfg.Backend {
	case "x11":
		return NewX11Backend(cfg.SocketDir), nil
	case "evdev":
		b, err := NewEvdevBackend(cfg.InputDir, cfg.Layout)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "auto", "":
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	ds := DetectDisplayServer(cfg.SocketDir)
	dbg("detected display server: %s", ds)
	if ds == DisplayServerX11 {
		return NewX11Backend(cfg.SocketDir), nil
	}

	b, err := NewEvdevBackend(cfg.InputDir, cfg.Layout)
	if errors.Is(err, ErrBackendNotAvailable) {
		log.Printf("evdev backend unavailable, falling back to X11")
		return NewX11Backend(cfg.SocketDir), nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
