package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

var boardKeys = []Key{
	{Code: 'a', Label: "a"},
	{Code: 'b', Label: "b"},
	{Code: ' ', Label: "space"},
}

func TestBoardRender(t *testing.T) {
	tests := []struct {
		name  string
		keys  []Key
		opts  BoardOptions
		press []Keysym
		want  string
	}{
		{"empty", nil, BoardOptions{}, nil, "(no keys)\n"},
		{"idle", boardKeys, BoardOptions{}, nil, " a  b  ␣ \n"},
		{"one active", boardKeys, BoardOptions{}, []Keysym{'b'}, " a [b] ␣ \n"},
		{"wrapped", boardKeys, BoardOptions{Columns: 2}, nil, " a  b \n ␣ \n"},
		{"colour", boardKeys, BoardOptions{Colour: true}, []Keysym{'a'}, "\x1b[7m a \x1b[0m b  ␣ \n"},
		{"redraw", boardKeys, BoardOptions{Colour: true, Redraw: true}, []Keysym{'a'}, "\x1b[H\x1b[2J\x1b[7m a \x1b[0m b  ␣ \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			b := NewBoard(tt.keys, tt.opts, &queueDispatcher{}, &out)
			for _, code := range tt.press {
				b.HandleEvent(KeyEvent{Key: Key{Code: code}, Pressed: true})
			}
			out.Reset()
			b.Render()
			if got := out.String(); got != tt.want {
				t.Errorf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBoardIgnoresReleaseAndUnknown(t *testing.T) {
	var out bytes.Buffer
	b := NewBoard(boardKeys, BoardOptions{}, &queueDispatcher{}, &out)

	b.HandleEvent(KeyEvent{Key: Key{Code: 'a', Label: "a"}, Pressed: false})
	b.HandleEvent(KeyEvent{Key: Key{Code: 'z', Label: "z"}, Pressed: true})
	if b.Active('a') || b.Active('z') {
		t.Error("release or unknown key lit a button")
	}
	if out.Len() != 0 {
		t.Errorf("board redrawn for ignored events: %q", out.String())
	}
}

func TestBoardPulseReverts(t *testing.T) {
	disp := &queueDispatcher{}
	b := NewBoard(boardKeys, BoardOptions{Pulse: 10 * time.Millisecond}, disp, &bytes.Buffer{})

	b.HandleEvent(KeyEvent{Key: boardKeys[0], Pressed: true})
	if !b.Active('a') {
		t.Fatal("a not lit after press")
	}

	waitFor(t, time.Second, "revert to be posted", func() bool { return disp.len() == 1 })
	if !b.Active('a') {
		t.Error("a reverted off the UI loop")
	}
	disp.runAll()
	if b.Active('a') {
		t.Error("a still lit after revert ran")
	}
}

func TestBoardRetriggerRestartsPulse(t *testing.T) {
	disp := &queueDispatcher{}
	pulse := 40 * time.Millisecond
	b := NewBoard(boardKeys, BoardOptions{Pulse: pulse}, disp, &bytes.Buffer{})

	b.HandleEvent(KeyEvent{Key: boardKeys[0], Pressed: true})
	time.Sleep(pulse / 2)
	b.HandleEvent(KeyEvent{Key: boardKeys[0], Pressed: true})

	// The first pulse is over, the restarted one is not.
	time.Sleep(pulse * 3 / 4)
	disp.runAll()
	if !b.Active('a') {
		t.Fatal("retriggered key reverted on the first pulse")
	}

	waitFor(t, time.Second, "second revert", func() bool { return disp.len() > 0 })
	disp.runAll()
	if b.Active('a') {
		t.Error("key still lit after the restarted pulse")
	}
}

func TestBoardApply(t *testing.T) {
	var out bytes.Buffer
	b := NewBoard(boardKeys, BoardOptions{Columns: 10}, &queueDispatcher{}, &out)

	b.Apply(BoardOptions{Columns: 1, Pulse: time.Second})
	if got := strings.Count(out.String(), "\n"); got != len(boardKeys) {
		t.Errorf("board has %d rows after Apply, want %d", got, len(boardKeys))
	}
	if b.pulse != time.Second {
		t.Errorf("pulse = %s, want 1s", b.pulse)
	}
}

func TestBoardStaleRevertIgnored(t *testing.T) {
	b := NewBoard(boardKeys, BoardOptions{Pulse: time.Hour}, &queueDispatcher{}, &bytes.Buffer{})

	b.HandleEvent(KeyEvent{Key: boardKeys[1], Pressed: true})
	btn := b.index['b']
	stale := btn.gen
	b.HandleEvent(KeyEvent{Key: boardKeys[1], Pressed: true})

	b.revert(btn, stale)
	if !b.Active('b') {
		t.Error("revert from an earlier press switched the key off")
	}
	b.revert(btn, btn.gen)
	if b.Active('b') {
		t.Error("current revert did not switch the key off")
	}
}

func TestBoardChangeLines(t *testing.T) {
	var out bytes.Buffer
	b := NewBoard(boardKeys, BoardOptions{Pulse: time.Hour}, &queueDispatcher{}, &out)

	b.HandleEvent(KeyEvent{Key: boardKeys[0], Pressed: true})
	b.HandleEvent(KeyEvent{Key: boardKeys[2], Pressed: true})
	for _, code := range []Keysym{'a', ' '} {
		btn := b.index[code]
		b.revert(btn, btn.gen)
	}

	want := "lit: a\nlit: a ␣\nlit: ␣\nlit: -\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestBoardRedrawRepaints(t *testing.T) {
	var out bytes.Buffer
	b := NewBoard(boardKeys, BoardOptions{Redraw: true, Pulse: time.Hour}, &queueDispatcher{}, &out)

	b.HandleEvent(KeyEvent{Key: boardKeys[1], Pressed: true})
	if got, want := out.String(), "\x1b[H\x1b[2J a [b] ␣ \n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
