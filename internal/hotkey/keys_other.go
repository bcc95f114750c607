//go:build !linux

package hotkey

import (
	xhotkey "golang.design/x/hotkey"

	"github.com/sokki-app/sokki/internal/shortcut"
)

// keyCodes maps every key shortcut.ParseKey accepts to the platform code.
// The xhotkey constants resolve to different values per OS.
var keyCodes = map[shortcut.Key]xhotkey.Key{
	'A': xhotkey.KeyA, 'B': xhotkey.KeyB, 'C': xhotkey.KeyC, 'D': xhotkey.KeyD,
	'E': xhotkey.KeyE, 'F': xhotkey.KeyF, 'G': xhotkey.KeyG, 'H': xhotkey.KeyH,
	'I': xhotkey.KeyI, 'J': xhotkey.KeyJ, 'K': xhotkey.KeyK, 'L': xhotkey.KeyL,
	'M': xhotkey.KeyM, 'N': xhotkey.KeyN, 'O': xhotkey.KeyO, 'P': xhotkey.KeyP,
	'Q': xhotkey.KeyQ, 'R': xhotkey.KeyR, 'S': xhotkey.KeyS, 'T': xhotkey.KeyT,
	'U': xhotkey.KeyU, 'V': xhotkey.KeyV, 'W': xhotkey.KeyW, 'X': xhotkey.KeyX,
	'Y': xhotkey.KeyY, 'Z': xhotkey.KeyZ,

	'0': xhotkey.Key0, '1': xhotkey.Key1, '2': xhotkey.Key2, '3': xhotkey.Key3,
	'4': xhotkey.Key4, '5': xhotkey.Key5, '6': xhotkey.Key6, '7': xhotkey.Key7,
	'8': xhotkey.Key8, '9': xhotkey.Key9,
}
