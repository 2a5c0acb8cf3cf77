//go:build linux

package main

import evdev "github.com/holoplot/go-evdev"

// evdevLayouts maps a layout name to the unshifted keysym of every key it
// knows. evdev reports physical positions only, so naming keys needs a table.
var evdevLayouts = map[string]map[evdev.EvCode]Keysym{
	"us": usLayout,
}

// usLayout is a US/International keyboard at level 0.
var usLayout = map[evdev.EvCode]Keysym{
	evdev.KEY_A: 'a', evdev.KEY_B: 'b', evdev.KEY_C: 'c', evdev.KEY_D: 'd',
	evdev.KEY_E: 'e', evdev.KEY_F: 'f', evdev.KEY_G: 'g', evdev.KEY_H: 'h',
	evdev.KEY_I: 'i', evdev.KEY_J: 'j', evdev.KEY_K: 'k', evdev.KEY_L: 'l',
	evdev.KEY_M: 'm', evdev.KEY_N: 'n', evdev.KEY_O: 'o', evdev.KEY_P: 'p',
	evdev.KEY_Q: 'q', evdev.KEY_R: 'r', evdev.KEY_S: 's', evdev.KEY_T: 't',
	evdev.KEY_U: 'u', evdev.KEY_V: 'v', evdev.KEY_W: 'w', evdev.KEY_X: 'x',
	evdev.KEY_Y: 'y', evdev.KEY_Z: 'z',

	evdev.KEY_1: '1', evdev.KEY_2: '2', evdev.KEY_3: '3', evdev.KEY_4: '4',
	evdev.KEY_5: '5', evdev.KEY_6: '6', evdev.KEY_7: '7', evdev.KEY_8: '8',
	evdev.KEY_9: '9', evdev.KEY_0: '0',

	evdev.KEY_MINUS:      '-',
	evdev.KEY_EQUAL:      '=',
	evdev.KEY_LEFTBRACE:  '[',
	evdev.KEY_RIGHTBRACE: ']',
	evdev.KEY_SEMICOLON:  ';',
	evdev.KEY_APOSTROPHE: '\'',
	evdev.KEY_GRAVE:      '`',
	evdev.KEY_BACKSLASH:  '\\',
	evdev.KEY_COMMA:      ',',
	evdev.KEY_DOT:        '.',
	evdev.KEY_SLASH:      '/',
	evdev.KEY_SPACE:      ' ',

	evdev.KEY_ENTER:      ksReturn,
	evdev.KEY_ESC:        ksEscape,
	evdev.KEY_TAB:        ksTab,
	evdev.KEY_BACKSPACE:  ksBackSpace,
	evdev.KEY_UP:         ksUp,
	evdev.KEY_DOWN:       ksDown,
	evdev.KEY_LEFT:       ksLeft,
	evdev.KEY_RIGHT:      ksRight,
	evdev.KEY_HOME:       ksHome,
	evdev.KEY_END:        ksEnd,
	evdev.KEY_PAGEUP:     ksPrior,
	evdev.KEY_PAGEDOWN:   ksNext,
	evdev.KEY_DELETE:     ksDelete,
	evdev.KEY_INSERT:     ksInsert,
	evdev.KEY_CAPSLOCK:   ksCapsLock,
	evdev.KEY_LEFTSHIFT:  ksShiftL,
	evdev.KEY_RIGHTSHIFT: ksShiftR,
	evdev.KEY_LEFTCTRL:   ksControlL,
	evdev.KEY_RIGHTCTRL:  ksControlR,
	evdev.KEY_LEFTALT:    ksAltL,
	evdev.KEY_RIGHTALT:   ksAltR,
	evdev.KEY_LEFTMETA:   ksSuperL,
	evdev.KEY_RIGHTMETA:  ksSuperR,

	evdev.KEY_F1: ksF1, evdev.KEY_F2: ksF1 + 1, evdev.KEY_F3: ksF1 + 2,
	evdev.KEY_F4: ksF1 + 3, evdev.KEY_F5: ksF1 + 4, evdev.KEY_F6: ksF1 + 5,
	evdev.KEY_F7: ksF1 + 6, evdev.KEY_F8: ksF1 + 7, evdev.KEY_F9: ksF1 + 8,
	evdev.KEY_F10: ksF1 + 9, evdev.KEY_F11: ksF1 + 10, evdev.KEY_F12: ksF1 + 11,
}
