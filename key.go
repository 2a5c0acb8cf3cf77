package main

import "fmt"

// Key is one physical key as shown on the board. Code is the layout-resolved
// keysym and is the key's identity; Label is for display only.
type Key struct {
	Code  Keysym
	Label string
}

// KeyEvent is a decoded press or release of a Key.
type KeyEvent struct {
	Key     Key
	Pressed bool
}

func (e KeyEvent) String() string {
	state := "Released"
	if e.Pressed {
		state = "Pressed"
	}
	return fmt.Sprintf("%s key %s (%#x)", state, e.Key.Label, uint32(e.Key.Code))
}

// AllowList is the set of key names the board has room for.
type AllowList map[string]bool

// NewAllowList builds an AllowList from a list of key names.
func NewAllowList(labels []string) AllowList {
	a := make(AllowList, len(labels))
	for _, l := range labels {
		a[l] = true
	}
	return a
}
