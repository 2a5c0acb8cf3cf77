package main

import "sync"

// MainLoop is the UI goroutine. Everything that touches board state runs
// here, one function at a time, in the order it was posted. Posting never
// blocks and never drops: the queue grows as needed.
type MainLoop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake chan struct{}
	quit chan struct{}
	once sync.Once
}

// NewMainLoop creates a loop; call Run on the goroutine that should own the UI.
func NewMainLoop() *MainLoop {
	return &MainLoop{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
	}
}

// Invoke queues fn to run on the loop. Safe to call from any goroutine.
// Functions posted after Quit are discarded.
func (l *MainLoop) Invoke(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes queued functions until Quit is called.
func (l *MainLoop) Run() {
	for {
		select {
		case <-l.quit:
			return
		case <-l.wake:
		}

		for {
			batch := l.take()
			if len(batch) == 0 {
				break
			}
			for _, fn := range batch {
				select {
				case <-l.quit:
					return
				default:
				}
				fn()
			}
		}
	}
}

func (l *MainLoop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch
}

// Quit stops Run. It is idempotent.
func (l *MainLoop) Quit() {
	l.once.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
		close(l.quit)
	})
}
