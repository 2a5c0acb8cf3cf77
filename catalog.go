package main

// EnumerateKeys builds the board's key set from every device's layout. A key
// is kept when its keysym name is on the allow-list; duplicates across
// keycodes and devices collapse onto the first occurrence so the order is
// stable for layout. No devices, or no allowed keys, yields an empty slice.
func EnumerateKeys(devices []Device, allow AllowList) []Key {
	var keys []Key
	seen := make(map[Keysym]bool)

	for _, dev := range devices {
		for _, sym := range dev.Keymap() {
			if sym == NoSymbol || seen[sym] {
				continue
			}
			name := sym.Name()
			if name == "" || !allow[name] {
				continue
			}
			seen[sym] = true
			keys = append(keys, Key{Code: sym, Label: name})
		}
	}

	dbg("catalog: %d keys from %d device(s)", len(keys), len(devices))
	return keys
}
