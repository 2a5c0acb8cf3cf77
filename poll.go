package main

import (
	"context"
	"log"
	"sync"
	"time"
)

// Status is how a poll loop ended. Neither value is a failure.
type Status int

const (
	// StatusCancelled means the caller cancelled the loop.
	StatusCancelled Status = iota
	// StatusNoSources means there was nothing (left) to poll.
	StatusNoSources
)

func (s Status) String() string {
	switch s {
	case StatusCancelled:
		return "cancelled"
	case StatusNoSources:
		return "no sources available"
	default:
		return "unknown"
	}
}

// Dispatcher runs functions on the UI loop, in the order they were posted.
type Dispatcher interface {
	Invoke(fn func())
}

// PollContext is what the poll loop works on. The device set must not change
// once Run starts; Run owns the devices and closes them before returning.
type PollContext struct {
	Devices    []Device
	Dispatcher Dispatcher

	// ShutdownTimeout bounds how long Run waits for device readers to exit.
	ShutdownTimeout time.Duration
}

type deviceRead struct {
	dev Device
	ev  RawEvent
	err error
}

// Run polls every device until ctx is cancelled or no device is left, and
// posts each decoded key event to onEvent through the dispatcher. onEvent is
// never called from Run's goroutine, and never after ctx is done.
func Run(ctx context.Context, pc PollContext, onEvent func(KeyEvent)) Status {
	if len(pc.Devices) == 0 {
		log.Printf("no input sources to poll")
		return StatusNoSources
	}

	readCtx, stop := context.WithCancel(ctx)
	reads := make(chan deviceRead, len(pc.Devices))
	var wg sync.WaitGroup
	for _, dev := range pc.Devices {
		wg.Add(1)
		go readDevice(readCtx, dev, reads, &wg)
	}

	finish := func(s Status) Status {
		stop()
		for _, dev := range pc.Devices {
			dev.Close()
		}
		waitTimeout(&wg, pc.ShutdownTimeout)
		return s
	}

	live := len(pc.Devices)
	for {
		select {
		case <-ctx.Done():
			return finish(StatusCancelled)
		case r := <-reads:
			if ctx.Err() != nil {
				return finish(StatusCancelled)
			}
			if r.err != nil {
				log.Printf("input source %s failed, no longer polling it: %v", r.dev.Name(), r.err)
				live--
				if live == 0 {
					log.Printf("all input sources are gone")
					return finish(StatusNoSources)
				}
				continue
			}

			ev, ok := decode(r.dev, r.ev)
			if !ok {
				continue
			}
			pc.Dispatcher.Invoke(func() {
				if ctx.Err() != nil {
					return
				}
				onEvent(ev)
			})
		}
	}
}

// readDevice forwards one device's events in arrival order until the device
// fails or the loop stops.
func readDevice(ctx context.Context, dev Device, out chan<- deviceRead, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		ev, err := dev.Next()
		select {
		case out <- deviceRead{dev: dev, ev: ev, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// decode turns a raw event into a KeyEvent. Events of another extension, of
// another kind, or whose keysym has no name are not actionable.
func decode(dev Device, raw RawEvent) (KeyEvent, bool) {
	if raw.Extension != dev.Extension() {
		return KeyEvent{}, false
	}

	var pressed bool
	switch raw.Kind {
	case RawKeyPress:
		pressed = true
	case RawKeyRelease:
	default:
		return KeyEvent{}, false
	}

	sym := dev.Keysym(raw.Detail)
	if sym == NoSymbol {
		return KeyEvent{}, false
	}
	label := sym.Name()
	if label == "" {
		dbg("%s: keycode %d (%#x) has no name, dropped", dev.Name(), raw.Detail, uint32(sym))
		return KeyEvent{}, false
	}

	return KeyEvent{Key: Key{Code: sym, Label: label}, Pressed: pressed}, true
}

func waitTimeout(wg *sync.WaitGroup, d time.Duration) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		log.Printf("input readers still busy after %s, not waiting", d)
	}
}
