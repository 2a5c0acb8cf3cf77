package main

import "fmt"

// Keysym is an X11-style key symbol. Both backends resolve device keycodes to
// keysyms so the board sees a single identifier space.
type Keysym uint32

// NoSymbol marks a keycode with no symbol in the current layout.
const NoSymbol Keysym = 0

const (
	ksBackSpace  Keysym = 0xff08
	ksTab        Keysym = 0xff09
	ksReturn     Keysym = 0xff0d
	ksPause      Keysym = 0xff13
	ksScrollLock Keysym = 0xff14
	ksEscape     Keysym = 0xff1b
	ksHome       Keysym = 0xff50
	ksLeft       Keysym = 0xff51
	ksUp         Keysym = 0xff52
	ksRight      Keysym = 0xff53
	ksDown       Keysym = 0xff54
	ksPrior      Keysym = 0xff55
	ksNext       Keysym = 0xff56
	ksEnd        Keysym = 0xff57
	ksPrint      Keysym = 0xff61
	ksInsert     Keysym = 0xff63
	ksMenu       Keysym = 0xff67
	ksNumLock    Keysym = 0xff7f
	ksKPEnter    Keysym = 0xff8d
	ksKPMultiply Keysym = 0xffaa
	ksKPAdd      Keysym = 0xffab
	ksKPSubtract Keysym = 0xffad
	ksKPDecimal  Keysym = 0xffae
	ksKPDivide   Keysym = 0xffaf
	ksKP0        Keysym = 0xffb0
	ksF1         Keysym = 0xffbe
	ksShiftL     Keysym = 0xffe1
	ksShiftR     Keysym = 0xffe2
	ksControlL   Keysym = 0xffe3
	ksControlR   Keysym = 0xffe4
	ksCapsLock   Keysym = 0xffe5
	ksAltL       Keysym = 0xffe9
	ksAltR       Keysym = 0xffea
	ksSuperL     Keysym = 0xffeb
	ksSuperR     Keysym = 0xffec
	ksDelete     Keysym = 0xffff

	ksUnicodeBase Keysym = 0x01000000
)

var keysymNames = map[Keysym]string{
	' ': "space", '!': "exclam", '"': "quotedbl", '#': "numbersign",
	'$': "dollar", '%': "percent", '&': "ampersand", '\'': "apostrophe",
	'(': "parenleft", ')': "parenright", '*': "asterisk", '+': "plus",
	',': "comma", '-': "minus", '.': "period", '/': "slash",
	':': "colon", ';': "semicolon", '<': "less", '=': "equal",
	'>': "greater", '?': "question", '@': "at", '[': "bracketleft",
	'\\': "backslash", ']': "bracketright", '^': "asciicircum", '_': "underscore",
	'`': "grave", '{': "braceleft", '|': "bar", '}': "braceright",
	'~': "asciitilde",

	ksBackSpace: "BackSpace", ksTab: "Tab", ksReturn: "Return",
	ksPause: "Pause", ksScrollLock: "Scroll_Lock", ksEscape: "Escape",
	ksHome: "Home", ksLeft: "Left", ksUp: "Up", ksRight: "Right",
	ksDown: "Down", ksPrior: "Prior", ksNext: "Next", ksEnd: "End",
	ksPrint: "Print", ksInsert: "Insert", ksMenu: "Menu", ksNumLock: "Num_Lock",
	ksKPEnter: "KP_Enter", ksKPMultiply: "KP_Multiply", ksKPAdd: "KP_Add",
	ksKPSubtract: "KP_Subtract", ksKPDecimal: "KP_Decimal", ksKPDivide: "KP_Divide",
	ksShiftL: "Shift_L", ksShiftR: "Shift_R", ksControlL: "Control_L",
	ksControlR: "Control_R", ksCapsLock: "Caps_Lock", ksAltL: "Alt_L",
	ksAltR: "Alt_R", ksSuperL: "Super_L", ksSuperR: "Super_R", ksDelete: "Delete",
}

// latin1Names spells keysyms 0xa0 to 0xff, which equal their Latin-1 code
// points.
var latin1Names = [...]string{
	"nobreakspace", "exclamdown", "cent", "sterling", "currency", "yen", "brokenbar", "section",
	"diaeresis", "copyright", "ordfeminine", "guillemotleft", "notsign", "hyphen", "registered", "macron",
	"degree", "plusminus", "twosuperior", "threesuperior", "acute", "mu", "paragraph", "periodcentered",
	"cedilla", "onesuperior", "masculine", "guillemotright", "onequarter", "onehalf", "threequarters", "questiondown",
	"Agrave", "Aacute", "Acircumflex", "Atilde", "Adiaeresis", "Aring", "AE", "Ccedilla",
	"Egrave", "Eacute", "Ecircumflex", "Ediaeresis", "Igrave", "Iacute", "Icircumflex", "Idiaeresis",
	"ETH", "Ntilde", "Ograve", "Oacute", "Ocircumflex", "Otilde", "Odiaeresis", "multiply",
	"Oslash", "Ugrave", "Uacute", "Ucircumflex", "Udiaeresis", "Yacute", "THORN", "ssharp",
	"agrave", "aacute", "acircumflex", "atilde", "adiaeresis", "aring", "ae", "ccedilla",
	"egrave", "eacute", "ecircumflex", "ediaeresis", "igrave", "iacute", "icircumflex", "idiaeresis",
	"eth", "ntilde", "ograve", "oacute", "ocircumflex", "otilde", "odiaeresis", "division",
	"oslash", "ugrave", "uacute", "ucircumflex", "udiaeresis", "yacute", "thorn", "ydiaeresis",
}

// ISO group/level keys and dead keys.
var isoNames = map[Keysym]string{
	0xfe01: "ISO_Lock", 0xfe02: "ISO_Level2_Latch", 0xfe03: "ISO_Level3_Shift",
	0xfe04: "ISO_Level3_Latch", 0xfe05: "ISO_Level3_Lock", 0xfe06: "ISO_Group_Latch",
	0xfe07: "ISO_Group_Lock", 0xfe08: "ISO_Next_Group", 0xfe0a: "ISO_Prev_Group",
	0xfe0c: "ISO_First_Group", 0xfe0e: "ISO_Last_Group", 0xfe11: "ISO_Level5_Shift",
	0xfe20: "ISO_Left_Tab", 0xff7e: "Mode_switch",

	0xfe50: "dead_grave", 0xfe51: "dead_acute", 0xfe52: "dead_circumflex",
	0xfe53: "dead_tilde", 0xfe54: "dead_macron", 0xfe55: "dead_breve",
	0xfe56: "dead_abovedot", 0xfe57: "dead_diaeresis", 0xfe58: "dead_abovering",
	0xfe59: "dead_doubleacute", 0xfe5a: "dead_caron", 0xfe5b: "dead_cedilla",
	0xfe5c: "dead_ogonek", 0xfe5d: "dead_iota", 0xfe5e: "dead_voiced_sound",
	0xfe5f: "dead_semivoiced_sound", 0xfe60: "dead_belowdot",
}

func init() {
	for i, name := range latin1Names {
		keysymNames[Keysym(0xa0+i)] = name
	}
	for sym, name := range isoNames {
		keysymNames[sym] = name
	}
	for c := '0'; c <= '9'; c++ {
		keysymNames[Keysym(c)] = string(c)
		keysymNames[ksKP0+Keysym(c-'0')] = "KP_" + string(c)
	}
	for c := 'a'; c <= 'z'; c++ {
		keysymNames[Keysym(c)] = string(c)
		keysymNames[Keysym(c-'a'+'A')] = string(c - 'a' + 'A')
	}
	for i := 0; i < 12; i++ {
		keysymNames[ksF1+Keysym(i)] = fmt.Sprintf("F%d", i+1)
	}
}

// Name returns the keysym's name the way XKeysymToString spells it, or ""
// when the keysym has no string form.
func (k Keysym) Name() string {
	if name, ok := keysymNames[k]; ok {
		return name
	}
	if k >= ksUnicodeBase+0x100 && k <= ksUnicodeBase+0x10ffff {
		return fmt.Sprintf("U%04X", uint32(k-ksUnicodeBase))
	}
	return ""
}
