//go:build linux

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"

	evdev "github.com/holoplot/go-evdev"
)

// EvdevBackend reads key events straight from the kernel's /dev/input nodes.
// It needs read access to the nodes (usually membership of the 'input' group).
type EvdevBackend struct {
	dir    string
	layout map[evdev.EvCode]Keysym
}

// NewEvdevBackend creates a backend over the event nodes in dir, naming keys
// through the given layout.
func NewEvdevBackend(dir, layout string) (*EvdevBackend, error) {
	l, ok := evdevLayouts[layout]
	if !ok {
		return nil, fmt.Errorf("unknown evdev layout %q", layout)
	}
	return &EvdevBackend{dir: dir, layout: l}, nil
}

// Name returns the name of this backend.
func (b *EvdevBackend) Name() string {
	return "evdev"
}

// OpenDevices opens every event node that behaves like a keyboard, i.e. one
// that reports both KEY_A and KEY_ENTER. Nodes are only read, never grabbed.
func (b *EvdevBackend) OpenDevices() []Device {
	paths, err := filepath.Glob(filepath.Join(b.dir, "event*"))
	if err != nil || len(paths) == 0 {
		log.Printf("no input devices in %s", b.dir)
		return nil
	}
	slices.Sort(paths)

	var devices []Device
	for _, p := range paths {
		dev, err := evdev.OpenWithFlags(p, os.O_RDONLY)
		if err != nil {
			log.Printf("Input device %s not available: %v", p, err)
			continue
		}

		codes := dev.CapableEvents(evdev.EV_KEY)
		if !slices.Contains(codes, evdev.KEY_A) || !slices.Contains(codes, evdev.KEY_ENTER) {
			dbg("%s is not a keyboard, skipped", p)
			dev.Close()
			continue
		}

		name, _ := dev.Name()
		log.Printf("Using input device %s (%s)", p, name)
		devices = append(devices, &evdevDevice{dev: dev, path: p, codes: codes, layout: b.layout})
	}
	return devices
}

type evdevDevice struct {
	dev    *evdev.InputDevice
	path   string
	codes  []evdev.EvCode
	layout map[evdev.EvCode]Keysym
}

func (d *evdevDevice) Name() string { return d.path }

func (d *evdevDevice) Extension() uint8 { return uint8(evdev.EV_KEY) }

func (d *evdevDevice) Keymap() []Keysym {
	codes := slices.Clone(d.codes)
	slices.Sort(codes)
	syms := make([]Keysym, 0, len(codes))
	for _, c := range codes {
		syms = append(syms, d.layout[c])
	}
	return syms
}

func (d *evdevDevice) Keysym(keycode uint32) Keysym {
	return d.layout[evdev.EvCode(keycode)]
}

// Next reads the next event. Autorepeat (value 2) counts as a press so a
// held key keeps its button lit.
func (d *evdevDevice) Next() (RawEvent, error) {
	ev, err := d.dev.ReadOne()
	if err != nil {
		return RawEvent{}, err
	}

	raw := RawEvent{Extension: uint8(ev.Type), Detail: uint32(ev.Code)}
	if ev.Type == evdev.EV_KEY {
		switch ev.Value {
		case 1, 2:
			raw.Kind = RawKeyPress
		case 0:
			raw.Kind = RawKeyRelease
		}
	}
	return raw, nil
}

func (d *evdevDevice) Close() error {
	return d.dev.Close()
}
