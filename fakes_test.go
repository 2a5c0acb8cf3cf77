package main

import (
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	testExtension  = 131
	testMinKeycode = 8
)

// X keycodes of a pc105 keyboard with the us layout.
var testKeycodes = map[uint32]Keysym{
	10: '1', 11: '2', 19: '0',
	24: 'q', 38: 'a', 56: 'b', 54: 'c',
	65: ' ',
	36: ksReturn,
	92: 0xff0e, // unassigned, so it has no name
}

// fakeDevice is a Device fed from the test through channels.
type fakeDevice struct {
	name string
	ext  uint8
	syms []Keysym

	events chan RawEvent
	fail   chan error
	closed chan struct{}
	once   sync.Once
	closes atomic.Int32
}

func newFakeDevice(name string, keycodes map[uint32]Keysym) *fakeDevice {
	syms := make([]Keysym, 256-testMinKeycode)
	for kc, sym := range keycodes {
		syms[kc-testMinKeycode] = sym
	}
	return &fakeDevice{
		name:   name,
		ext:    testExtension,
		syms:   syms,
		events: make(chan RawEvent, 16),
		fail:   make(chan error, 1),
		closed: make(chan struct{}),
	}
}

func (d *fakeDevice) Name() string     { return d.name }
func (d *fakeDevice) Extension() uint8 { return d.ext }
func (d *fakeDevice) Keymap() []Keysym { return d.syms }

func (d *fakeDevice) Keysym(keycode uint32) Keysym {
	if keycode < testMinKeycode || int(keycode-testMinKeycode) >= len(d.syms) {
		return NoSymbol
	}
	return d.syms[keycode-testMinKeycode]
}

func (d *fakeDevice) Next() (RawEvent, error) {
	select {
	case ev := <-d.events:
		return ev, nil
	case err := <-d.fail:
		return RawEvent{}, err
	case <-d.closed:
		return RawEvent{}, net.ErrClosed
	}
}

func (d *fakeDevice) Close() error {
	d.closes.Add(1)
	d.once.Do(func() { close(d.closed) })
	return nil
}

func (d *fakeDevice) press(keycode uint32) {
	d.events <- RawEvent{Extension: d.ext, Kind: RawKeyPress, Detail: keycode}
}

func (d *fakeDevice) release(keycode uint32) {
	d.events <- RawEvent{Extension: d.ext, Kind: RawKeyRelease, Detail: keycode}
}

// queueDispatcher holds posted functions until the test runs them.
type queueDispatcher struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queueDispatcher) Invoke(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

func (q *queueDispatcher) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}

func (q *queueDispatcher) runAll() {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// waitFor polls cond until it holds or the timeout passes.
func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// onLoop runs fn on the loop and waits for its result.
func onLoop[T any](t *testing.T, loop *MainLoop, fn func() T) T {
	t.Helper()
	ch := make(chan T, 1)
	loop.Invoke(func() { ch <- fn() })
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("main loop did not run the function")
	}
	var zero T
	return zero
}
