package main

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

const x11DialTimeout = 2 * time.Second

var errNoXInput = errors.New("XInput extension not available")

// X11Backend listens to every local X display through XInput2 raw key events.
// Raw events are delivered regardless of which window has focus.
type X11Backend struct {
	socketDir string
}

// NewX11Backend creates a backend over the display sockets in socketDir.
func NewX11Backend(socketDir string) *X11Backend {
	return &X11Backend{socketDir: socketDir}
}

// Name returns the name of this backend.
func (b *X11Backend) Name() string {
	return "x11"
}

// displays lists the display numbers that have a socket in the socket dir.
func (b *X11Backend) displays() []int {
	entries, err := os.ReadDir(b.socketDir)
	if err != nil {
		dbg("read %s: %v", b.socketDir, err)
		return nil
	}
	var nums []int
	for _, e := range entries {
		rest, ok := strings.CutPrefix(e.Name(), "X")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			continue
		}
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums
}

// OpenDevices connects to every display found in the socket dir.
func (b *X11Backend) OpenDevices() []Device {
	var devices []Device
	for _, n := range b.displays() {
		display := ":" + strconv.Itoa(n)
		c, err := net.DialTimeout("unix", filepath.Join(b.socketDir, "X"+strconv.Itoa(n)), x11DialTimeout)
		if err != nil {
			log.Printf("Display %s not available: %v", display, err)
			continue
		}
		authName, authData := lookupXauth(strconv.Itoa(n))
		dev, err := openX11Device(c, display, authName, authData)
		if err != nil {
			c.Close()
			log.Printf("Display %s not available: %v", display, err)
			continue
		}
		log.Printf("Using display %s", display)
		devices = append(devices, dev)
	}
	return devices
}

type x11Device struct {
	display string
	conn    *x11Conn
	opcode  uint8

	mu         sync.RWMutex
	minKeycode uint8
	syms       []Keysym
}

// openX11Device sets up one display connection: handshake, XInput2
// negotiation, raw key selection on the root window, then the keymap.
func openX11Device(c net.Conn, display, authName string, authData []byte) (*x11Device, error) {
	conn, err := newX11Conn(c, authName, authData)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	dev, err := subscribeX11(conn, display)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return dev, nil
}

func subscribeX11(conn *x11Conn, display string) (*x11Device, error) {
	opcode, ok, err := conn.queryExtension("XInputExtension")
	if err != nil {
		return nil, fmt.Errorf("query XInput: %w", err)
	}
	if !ok {
		return nil, errNoXInput
	}

	major, minor, err := conn.xiQueryVersion(opcode, 2, 2)
	if err != nil {
		return nil, fmt.Errorf("query XInput version: %w", err)
	}
	if major < 2 {
		return nil, fmt.Errorf("%w: server speaks XInput %d.%d", errNoXInput, major, minor)
	}
	dbg("%s: XInput %d.%d, opcode %d", display, major, minor, opcode)

	if err := conn.xiSelectRawKeys(opcode, conn.setup.root); err != nil {
		return nil, fmt.Errorf("select raw key events: %w", err)
	}
	if err := conn.sync(); err != nil {
		return nil, fmt.Errorf("select raw key events: %w", err)
	}

	dev := &x11Device{display: display, conn: conn, opcode: opcode}
	if err := dev.refreshMapping(); err != nil {
		return nil, err
	}
	return dev, nil
}

func (d *x11Device) refreshMapping() error {
	syms, err := d.conn.keyboardMapping()
	if err != nil {
		return fmt.Errorf("get keyboard mapping: %w", err)
	}
	d.mu.Lock()
	d.minKeycode = d.conn.setup.minKeycode
	d.syms = syms
	d.mu.Unlock()
	return nil
}

func (d *x11Device) Name() string { return d.display }

func (d *x11Device) Extension() uint8 { return d.opcode }

func (d *x11Device) Keymap() []Keysym {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.syms)
}

func (d *x11Device) Keysym(keycode uint32) Keysym {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if keycode < uint32(d.minKeycode) {
		return NoSymbol
	}
	i := int(keycode - uint32(d.minKeycode))
	if i >= len(d.syms) {
		return NoSymbol
	}
	return d.syms[i]
}

// Next returns the next XInput generic event. Keyboard mapping changes are
// applied here and never surface as events.
func (d *x11Device) Next() (RawEvent, error) {
	for {
		ev, err := d.conn.nextEvent()
		if err != nil {
			return RawEvent{}, err
		}

		switch ev[0] & 0x7f {
		case x11GenericEvent:
			raw := RawEvent{Extension: ev[1], Detail: le.Uint32(ev[16:])}
			switch le.Uint16(ev[8:]) {
			case xiRawKeyPress:
				raw.Kind = RawKeyPress
			case xiRawKeyRelease:
				raw.Kind = RawKeyRelease
			}
			return raw, nil
		case x11MappingNotify:
			if ev[4] != x11MappingKeyboard {
				continue
			}
			if err := d.refreshMapping(); err != nil {
				return RawEvent{}, err
			}
			dbg("%s: keyboard mapping changed", d.display)
		}
	}
}

func (d *x11Device) Close() error {
	return d.conn.Close()
}
