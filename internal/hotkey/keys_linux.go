//go:build linux

package hotkey

import "github.com/sokki-app/sokki/internal/shortcut"

// keyCodes maps every key shortcut.ParseKey accepts to its evdev code
// (linux/input-event-codes.h).
var keyCodes = map[shortcut.Key]uint16{
	'Q': 16, 'W': 17, 'E': 18, 'R': 19, 'T': 20, 'Y': 21, 'U': 22, 'I': 23, 'O': 24, 'P': 25,
	'A': 30, 'S': 31, 'D': 32, 'F': 33, 'G': 34, 'H': 35, 'J': 36, 'K': 37, 'L': 38,
	'Z': 44, 'X': 45, 'C': 46, 'V': 47, 'B': 48, 'N': 49, 'M': 50,

	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
}

// modifierCodes maps left and right modifier keys to the modifier they hold.
var modifierCodes = map[uint16]shortcut.Modifiers{
	29:  shortcut.ModPrimary, // KEY_LEFTCTRL
	97:  shortcut.ModPrimary, // KEY_RIGHTCTRL
	42:  shortcut.ModShift,   // KEY_LEFTSHIFT
	54:  shortcut.ModShift,   // KEY_RIGHTSHIFT
	56:  shortcut.ModAlt,     // KEY_LEFTALT
	100: shortcut.ModAlt,     // KEY_RIGHTALT
}
