//go:build !linux

package main

// EvdevBackend is only available on Linux.
type EvdevBackend struct{}

// NewEvdevBackend always fails outside Linux.
func NewEvdevBackend(dir, layout string) (*EvdevBackend, error) {
	return nil, ErrBackendNotAvailable
}

func (b *EvdevBackend) Name() string { return "evdev" }

func (b *EvdevBackend) OpenDevices() []Device { return nil }
