// Package paths resolves per-user application directories the way each
// platform expects them.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "sokki"

// Kind selects what a directory holds.
type Kind int

const (
	Data Kind = iota
	Logs
)

// Dir returns the per-user directory of kind for the app.
func Dir(kind Kind) string {
	home := os.Getenv("HOME")

	var base string
	switch runtime.GOOS {
	case "darwin":
		if kind == Logs {
			base = filepath.Join(home, "Library", "Logs")
		} else {
			base = filepath.Join(home, "Library", "Application Support")
		}
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
	default: // linux
		env, fallback := "XDG_DATA_HOME", filepath.Join(".local", "share")
		if kind == Logs {
			env, fallback = "XDG_STATE_HOME", filepath.Join(".local", "state")
		}
		if xdg := os.Getenv(env); xdg != "" {
			base = xdg
		} else {
			base = filepath.Join(home, fallback)
		}
	}

	return filepath.Join(base, appName)
}
