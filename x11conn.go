package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
)

// Core and XInput2 protocol constants used by the X11 backend.
const (
	x11OpGetInputFocus      = 43
	x11OpQueryExtension     = 98
	x11OpGetKeyboardMapping = 101

	xiOpSelectEvents = 46
	xiOpQueryVersion = 47

	x11Error           = 0
	x11Reply           = 1
	x11MappingNotify   = 34
	x11GenericEvent    = 35
	x11MappingKeyboard = 1

	xiRawKeyPress      = 13
	xiRawKeyRelease    = 14
	xiAllMasterDevices = 1
)

var le = binary.LittleEndian

// x11ProtocolError is an error packet sent by the server.
type x11ProtocolError struct {
	Code     uint8
	Sequence uint16
	Major    uint8
	Minor    uint16
}

func (e *x11ProtocolError) Error() string {
	return fmt.Sprintf("X error %d (request %d.%d, sequence %d)", e.Code, e.Major, e.Minor, e.Sequence)
}

type x11Setup struct {
	root       uint32
	minKeycode uint8
	maxKeycode uint8
}

type x11Result struct {
	data []byte
	err  error
}

// x11Conn is a minimal X11 client connection. A single reader goroutine
// routes replies to their waiting request by sequence number and queues
// everything else as events.
type x11Conn struct {
	c     net.Conn
	setup x11Setup

	wmu sync.Mutex // serialises writes and sequence numbers
	seq uint16

	pmu      sync.Mutex
	pending  map[uint16]chan x11Result
	asyncErr error

	qmu    sync.Mutex
	queue  [][]byte
	notify chan struct{}

	done    chan struct{}
	errOnce sync.Once
	err     error
}

// newX11Conn performs the connection handshake on c and starts reading.
func newX11Conn(c net.Conn, authName string, authData []byte) (*x11Conn, error) {
	setup, err := x11Handshake(c, authName, authData)
	if err != nil {
		return nil, err
	}
	x := &x11Conn{
		c:       c,
		setup:   setup,
		pending: make(map[uint16]chan x11Result),
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go x.readLoop()
	return x, nil
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

func x11Handshake(c net.Conn, authName string, authData []byte) (x11Setup, error) {
	req := make([]byte, 12+pad4(len(authName))+pad4(len(authData)))
	req[0] = 'l'
	le.PutUint16(req[2:], 11)
	le.PutUint16(req[4:], 0)
	le.PutUint16(req[6:], uint16(len(authName)))
	le.PutUint16(req[8:], uint16(len(authData)))
	copy(req[12:], authName)
	copy(req[12+pad4(len(authName)):], authData)
	if _, err := c.Write(req); err != nil {
		return x11Setup{}, fmt.Errorf("send setup: %w", err)
	}

	hdr := make([]byte, 8)
	if _, err := io.ReadFull(c, hdr); err != nil {
		return x11Setup{}, fmt.Errorf("read setup: %w", err)
	}
	data := make([]byte, int(le.Uint16(hdr[6:]))*4)
	if _, err := io.ReadFull(c, data); err != nil {
		return x11Setup{}, fmt.Errorf("read setup: %w", err)
	}

	switch hdr[0] {
	case 1:
	case 0:
		n := min(int(hdr[1]), len(data))
		return x11Setup{}, fmt.Errorf("connection refused: %s", data[:n])
	default:
		return x11Setup{}, fmt.Errorf("authentication required: %s", trimNUL(data))
	}

	if len(data) < 32 {
		return x11Setup{}, errors.New("short setup reply")
	}
	vendorLen := int(le.Uint16(data[16:]))
	numScreens := int(data[20])
	numFormats := int(data[21])
	off := 32 + pad4(vendorLen) + 8*numFormats
	if numScreens == 0 || off+4 > len(data) {
		return x11Setup{}, errors.New("setup reply has no screen")
	}
	return x11Setup{
		root:       le.Uint32(data[off:]),
		minKeycode: data[26],
		maxKeycode: data[27],
	}, nil
}

func trimNUL(b []byte) string {
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b)
}

func (x *x11Conn) readLoop() {
	for {
		msg := make([]byte, 32)
		if _, err := io.ReadFull(x.c, msg); err != nil {
			x.fail(err)
			return
		}
		kind := msg[0] & 0x7f
		if kind == x11Reply || kind == x11GenericEvent {
			if extra := int(le.Uint32(msg[4:])) * 4; extra > 0 {
				msg = append(msg, make([]byte, extra)...)
				if _, err := io.ReadFull(x.c, msg[32:]); err != nil {
					x.fail(err)
					return
				}
			}
		}

		seq := le.Uint16(msg[2:])
		switch kind {
		case x11Error:
			x.deliver(seq, x11Result{err: &x11ProtocolError{
				Code: msg[1], Sequence: seq, Minor: le.Uint16(msg[8:]), Major: msg[10],
			}})
		case x11Reply:
			x.deliver(seq, x11Result{data: msg})
		default:
			x.qmu.Lock()
			x.queue = append(x.queue, msg)
			x.qmu.Unlock()
			select {
			case x.notify <- struct{}{}:
			default:
			}
		}
	}
}

// deliver hands a reply or error to its request. Errors for requests that
// expect no reply are kept until the next sync.
func (x *x11Conn) deliver(seq uint16, r x11Result) {
	x.pmu.Lock()
	defer x.pmu.Unlock()
	if ch, ok := x.pending[seq]; ok {
		delete(x.pending, seq)
		ch <- r
		return
	}
	if r.err != nil && x.asyncErr == nil {
		x.asyncErr = r.err
	}
}

func (x *x11Conn) fail(err error) {
	x.errOnce.Do(func() {
		x.err = err
		close(x.done)
	})
}

// send writes one request. When reply is set the returned channel receives
// the matching reply or error.
func (x *x11Conn) send(req []byte, reply bool) (<-chan x11Result, error) {
	x.wmu.Lock()
	defer x.wmu.Unlock()

	x.seq++
	var ch chan x11Result
	if reply {
		ch = make(chan x11Result, 1)
		x.pmu.Lock()
		x.pending[x.seq] = ch
		x.pmu.Unlock()
	}
	if _, err := x.c.Write(req); err != nil {
		x.pmu.Lock()
		delete(x.pending, x.seq)
		x.pmu.Unlock()
		return nil, err
	}
	return ch, nil
}

func (x *x11Conn) roundTrip(req []byte) ([]byte, error) {
	ch, err := x.send(req, true)
	if err != nil {
		return nil, err
	}
	select {
	case r := <-ch:
		return r.data, r.err
	case <-x.done:
		return nil, x.err
	}
}

// sync waits until the server has processed every request sent so far and
// reports the first error any of them raised.
func (x *x11Conn) sync() error {
	req := make([]byte, 4)
	req[0] = x11OpGetInputFocus
	le.PutUint16(req[2:], 1)
	if _, err := x.roundTrip(req); err != nil {
		return err
	}
	x.pmu.Lock()
	defer x.pmu.Unlock()
	err := x.asyncErr
	x.asyncErr = nil
	return err
}

// queryExtension returns the major opcode of the named extension.
func (x *x11Conn) queryExtension(name string) (opcode uint8, present bool, err error) {
	req := make([]byte, 8+pad4(len(name)))
	req[0] = x11OpQueryExtension
	le.PutUint16(req[2:], uint16(len(req)/4))
	le.PutUint16(req[4:], uint16(len(name)))
	copy(req[8:], name)
	r, err := x.roundTrip(req)
	if err != nil {
		return 0, false, err
	}
	return r[9], r[8] != 0, nil
}

// xiQueryVersion announces the XInput version we speak and returns the
// server's.
func (x *x11Conn) xiQueryVersion(opcode uint8, major, minor uint16) (uint16, uint16, error) {
	req := make([]byte, 8)
	req[0] = opcode
	req[1] = xiOpQueryVersion
	le.PutUint16(req[2:], 2)
	le.PutUint16(req[4:], major)
	le.PutUint16(req[6:], minor)
	r, err := x.roundTrip(req)
	if err != nil {
		return 0, 0, err
	}
	return le.Uint16(r[8:]), le.Uint16(r[10:]), nil
}

// xiSelectRawKeys asks for raw key press and release events from all master
// devices on window.
func (x *x11Conn) xiSelectRawKeys(opcode uint8, window uint32) error {
	req := make([]byte, 20)
	req[0] = opcode
	req[1] = xiOpSelectEvents
	le.PutUint16(req[2:], 5)
	le.PutUint32(req[4:], window)
	le.PutUint16(req[8:], 1)
	le.PutUint16(req[12:], xiAllMasterDevices)
	le.PutUint16(req[14:], 1)
	le.PutUint32(req[16:], 1<<xiRawKeyPress|1<<xiRawKeyRelease)
	_, err := x.send(req, false)
	return err
}

// keyboardMapping returns the level 0 keysym of every keycode from the
// server's minimum to its maximum keycode.
func (x *x11Conn) keyboardMapping() ([]Keysym, error) {
	first := x.setup.minKeycode
	count := int(x.setup.maxKeycode) - int(first) + 1
	req := make([]byte, 8)
	req[0] = x11OpGetKeyboardMapping
	le.PutUint16(req[2:], 2)
	req[4] = first
	req[5] = uint8(count)
	r, err := x.roundTrip(req)
	if err != nil {
		return nil, err
	}

	perKeycode := int(r[1])
	n := int(le.Uint32(r[4:]))
	if perKeycode == 0 || 32+4*n > len(r) {
		return nil, errors.New("malformed keyboard mapping reply")
	}
	syms := make([]Keysym, 0, n/perKeycode)
	for i := 0; i+perKeycode <= n; i += perKeycode {
		syms = append(syms, Keysym(le.Uint32(r[32+4*i:])))
	}
	return syms, nil
}

// nextEvent blocks until an event arrives. Events already read are still
// returned after the connection fails.
func (x *x11Conn) nextEvent() ([]byte, error) {
	for {
		x.qmu.Lock()
		if len(x.queue) > 0 {
			ev := x.queue[0]
			x.queue[0] = nil
			x.queue = x.queue[1:]
			x.qmu.Unlock()
			return ev, nil
		}
		x.qmu.Unlock()

		select {
		case <-x.notify:
		case <-x.done:
			x.qmu.Lock()
			empty := len(x.queue) == 0
			x.qmu.Unlock()
			if empty {
				return nil, x.err
			}
		}
	}
}

// Close shuts the connection; blocked callers return with an error.
func (x *x11Conn) Close() error {
	err := x.c.Close()
	x.fail(net.ErrClosed)
	return err
}
