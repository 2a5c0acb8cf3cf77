package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	xauthFamilyLocal = 256
	xauthFamilyWild  = 65535

	mitMagicCookie = "MIT-MAGIC-COOKIE-1"
)

// xauthEntry is one record of an .Xauthority file.
type xauthEntry struct {
	Family  uint16
	Address string
	Number  string
	Name    string
	Data    []byte
}

// xauthPath returns $XAUTHORITY, or ~/.Xauthority.
func xauthPath() string {
	if p := os.Getenv("XAUTHORITY"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".Xauthority")
}

// readXauth parses an .Xauthority stream. Every field is big-endian and
// length-prefixed.
func readXauth(r io.Reader) ([]xauthEntry, error) {
	br := bufio.NewReader(r)
	var entries []xauthEntry
	for {
		var family uint16
		if err := binary.Read(br, binary.BigEndian, &family); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return nil, fmt.Errorf("read family: %w", err)
		}
		var fields [4][]byte
		for i := range fields {
			var n uint16
			if err := binary.Read(br, binary.BigEndian, &n); err != nil {
				return nil, fmt.Errorf("truncated entry: %w", err)
			}
			fields[i] = make([]byte, n)
			if _, err := io.ReadFull(br, fields[i]); err != nil {
				return nil, fmt.Errorf("truncated entry: %w", err)
			}
		}
		entries = append(entries, xauthEntry{
			Family:  family,
			Address: string(fields[0]),
			Number:  string(fields[1]),
			Name:    string(fields[2]),
			Data:    fields[3],
		})
	}
}

// findXauth picks the cookie for a local display number. An empty Number in
// the file matches every display.
func findXauth(entries []xauthEntry, hostname, display string) (xauthEntry, bool) {
	for _, e := range entries {
		if e.Name != mitMagicCookie {
			continue
		}
		if e.Number != "" && e.Number != display {
			continue
		}
		switch e.Family {
		case xauthFamilyWild:
		case xauthFamilyLocal:
			if hostname != "" && e.Address != hostname {
				continue
			}
		default:
			continue
		}
		return e, true
	}
	return xauthEntry{}, false
}

// lookupXauth reads the user's authority file and returns the cookie for
// display, if any. A missing file just means no authentication.
func lookupXauth(display string) (name string, data []byte) {
	f, err := os.Open(xauthPath())
	if err != nil {
		dbg("no Xauthority: %v", err)
		return "", nil
	}
	defer f.Close()

	entries, err := readXauth(f)
	if err != nil {
		dbg("bad Xauthority: %v", err)
		return "", nil
	}
	hostname, _ := os.Hostname()
	e, ok := findXauth(entries, hostname, display)
	if !ok {
		return "", nil
	}
	return e.Name, e.Data
}
