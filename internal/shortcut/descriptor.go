package shortcut

import (
	"runtime"
	"strings"

	"github.com/sokki-app/sokki/internal/config"
)

// Modifiers is a set of modifier keys.
type Modifiers uint8

const (
	// ModPrimary is Cmd on macOS and Ctrl everywhere else.
	ModPrimary Modifiers = 1 << iota
	ModShift
	ModAlt
)

// Has reports whether all modifiers in m are present.
func (ms Modifiers) Has(m Modifiers) bool { return ms&m == m }

// Key is an upper-case ASCII letter or digit.
type Key byte

// ParseKey accepts exactly one letter (either case) or digit.
func ParseKey(name string) (Key, error) {
	if len(name) != 1 {
		return 0, &UnsupportedKeyError{Key: name}
	}

	c := name[0]
	switch {
	case c >= 'a' && c <= 'z':
		return Key(c - 'a' + 'A'), nil
	case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return Key(c), nil
	}
	return 0, &UnsupportedKeyError{Key: name}
}

func (k Key) String() string { return string(rune(k)) }

// Descriptor identifies one shortcut. It is comparable and safe to use as
// a map key.
type Descriptor struct {
	Mods Modifiers
	Key  Key
}

// FromConfig validates a persisted or UI-provided record.
func FromConfig(sc config.Shortcut) (Descriptor, error) {
	key, err := ParseKey(sc.Key)
	if err != nil {
		return Descriptor{}, err
	}

	var mods Modifiers
	if sc.CtrlKey {
		mods |= ModPrimary
	}
	if sc.ShiftKey {
		mods |= ModShift
	}
	if sc.AltKey {
		mods |= ModAlt
	}
	return Descriptor{Mods: mods, Key: key}, nil
}

// Config returns the record that FromConfig turns back into d.
func (d Descriptor) Config() config.Shortcut {
	return config.Shortcut{
		CtrlKey:  d.Mods.Has(ModPrimary),
		ShiftKey: d.Mods.Has(ModShift),
		AltKey:   d.Mods.Has(ModAlt),
		Key:      d.Key.String(),
	}
}

// String renders the accelerator the way the platform labels it, e.g.
// "Cmd+Shift+M" on macOS.
func (d Descriptor) String() string {
	var parts []string
	if d.Mods.Has(ModPrimary) {
		if runtime.GOOS == "darwin" {
			parts = append(parts, "Cmd")
		} else {
			parts = append(parts, "Ctrl")
		}
	}
	if d.Mods.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if d.Mods.Has(ModAlt) {
		if runtime.GOOS == "darwin" {
			parts = append(parts, "Option")
		} else {
			parts = append(parts, "Alt")
		}
	}
	parts = append(parts, d.Key.String())
	return strings.Join(parts, "+")
}
