//go:build windows

package hotkey

import (
	xhotkey "golang.design/x/hotkey"

	"github.com/sokki-app/sokki/internal/shortcut"
)

func modifiersFor(ms shortcut.Modifiers) []xhotkey.Modifier {
	var mods []xhotkey.Modifier
	if ms.Has(shortcut.ModPrimary) {
		mods = append(mods, xhotkey.ModCtrl)
	}
	if ms.Has(shortcut.ModShift) {
		mods = append(mods, xhotkey.ModShift)
	}
	if ms.Has(shortcut.ModAlt) {
		mods = append(mods, xhotkey.ModAlt)
	}
	return mods
}
