package main

import (
	"io"
	"strings"
	"time"
)

// DefaultPulse is how long a key stays lit after a press.
const DefaultPulse = 400 * time.Millisecond

// Board is the terminal presentation: one button per catalog key, lit for a
// fixed pulse after each press. All methods must run on the UI loop.
type Board struct {
	buttons []*button
	index   map[Keysym]*button

	pulse   time.Duration
	columns int
	colour  bool
	redraw  bool

	loop Dispatcher
	out  io.Writer
}

type button struct {
	key    Key
	active bool
	timer  *time.Timer
	gen    int
}

// BoardOptions are the presentation settings of a Board. Redraw means out is
// a terminal the board may clear and repaint in place; otherwise every change
// is written as a single line listing the lit keys.
type BoardOptions struct {
	Pulse   time.Duration
	Columns int
	Colour  bool
	Redraw  bool
}

// NewBoard lays out keys in catalog order. Revert timers post back through loop.
func NewBoard(keys []Key, opts BoardOptions, loop Dispatcher, out io.Writer) *Board {
	b := &Board{
		index:   make(map[Keysym]*button, len(keys)),
		pulse:   opts.Pulse,
		columns: opts.Columns,
		colour:  opts.Colour,
		redraw:  opts.Redraw,
		loop:    loop,
		out:     out,
	}
	if b.pulse <= 0 {
		b.pulse = DefaultPulse
	}
	if b.columns <= 0 {
		b.columns = 10
	}
	for _, k := range keys {
		btn := &button{key: k}
		b.buttons = append(b.buttons, btn)
		b.index[k.Code] = btn
	}
	return b
}

// HandleEvent lights the pressed key and (re)starts its revert timer.
// Releases and keys that are not on the board are ignored.
func (b *Board) HandleEvent(ev KeyEvent) {
	if !ev.Pressed {
		return
	}
	btn, ok := b.index[ev.Key.Code]
	if !ok {
		return
	}

	btn.active = true
	btn.gen++
	gen := btn.gen
	if btn.timer != nil {
		btn.timer.Stop()
	}
	btn.timer = time.AfterFunc(b.pulse, func() {
		b.loop.Invoke(func() { b.revert(btn, gen) })
	})
	b.changed()
}

// revert switches a button off unless it was pressed again after gen was taken.
func (b *Board) revert(btn *button, gen int) {
	if btn.gen != gen || !btn.active {
		return
	}
	btn.active = false
	btn.timer = nil
	b.changed()
}

func (b *Board) changed() {
	if b.redraw {
		b.Render()
		return
	}
	var lit []string
	for _, btn := range b.buttons {
		if btn.active {
			lit = append(lit, displayLabel(btn.key))
		}
	}
	if len(lit) == 0 {
		lit = []string{"-"}
	}
	io.WriteString(b.out, "lit: "+strings.Join(lit, " ")+"\n")
}

// Active reports whether the key with the given code is currently lit.
func (b *Board) Active(code Keysym) bool {
	btn, ok := b.index[code]
	return ok && btn.active
}

// Apply updates the live-reloadable settings.
func (b *Board) Apply(opts BoardOptions) {
	if opts.Pulse > 0 {
		b.pulse = opts.Pulse
	}
	if opts.Columns > 0 {
		b.columns = opts.Columns
	}
	b.colour = opts.Colour
	b.redraw = opts.Redraw
	b.Render()
}

// Render draws the whole board, over the previous one when redrawing.
func (b *Board) Render() {
	var sb strings.Builder
	if b.redraw {
		sb.WriteString("\x1b[H\x1b[2J")
	}
	if len(b.buttons) == 0 {
		sb.WriteString("(no keys)\n")
		io.WriteString(b.out, sb.String())
		return
	}
	for i, btn := range b.buttons {
		if i > 0 && i%b.columns == 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.cell(btn))
	}
	sb.WriteByte('\n')
	io.WriteString(b.out, sb.String())
}

func displayLabel(k Key) string {
	if k.Label == "space" {
		return "␣"
	}
	return k.Label
}

func (b *Board) cell(btn *button) string {
	label := displayLabel(btn.key)
	switch {
	case btn.active && b.colour:
		return "\x1b[7m " + label + " \x1b[0m"
	case btn.active:
		return "[" + label + "]"
	default:
		return " " + label + " "
	}
}
