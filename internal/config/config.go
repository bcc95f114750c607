package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sokki-app/sokki/internal/paths"
)

const shortcutFile = "shortcut.json"

// ErrNotFound is returned by Load when no shortcut has been saved yet.
var ErrNotFound = errors.New("shortcut config not found")

// ParseError reports a shortcut file that exists but cannot be decoded,
// typically one truncated by a crash mid-write.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Shortcut is the on-disk record of the global shortcut, kept in the same
// shape the settings UI produces it.
type Shortcut struct {
	CtrlKey  bool   `json:"ctrlKey"`
	ShiftKey bool   `json:"shiftKey"`
	AltKey   bool   `json:"altKey"`
	Key      string `json:"key"`
}

// DefaultShortcut is Primary+Shift+M.
func DefaultShortcut() Shortcut {
	return Shortcut{
		CtrlKey:  true,
		ShiftKey: true,
		AltKey:   false,
		Key:      "M",
	}
}

// Store persists the shortcut record under a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the location of the shortcut file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, shortcutFile)
}

// Load reads the saved shortcut. Callers should treat both ErrNotFound and
// *ParseError as "use the default".
func (s *Store) Load() (Shortcut, error) {
	path := s.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Shortcut{}, ErrNotFound
		}
		return Shortcut{}, fmt.Errorf("read shortcut config: %w", err)
	}

	var sc Shortcut
	if err := json.Unmarshal(data, &sc); err != nil {
		return Shortcut{}, &ParseError{Path: path, Err: err}
	}

	return sc, nil
}

// Save overwrites the shortcut file. The write is not atomic.
func (s *Store) Save(sc Shortcut) error {
	// Ensure directory exists
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode shortcut config: %w", err)
	}

	if err := os.WriteFile(s.Path(), data, 0644); err != nil {
		return fmt.Errorf("write shortcut config: %w", err)
	}
	return nil
}

// DataDir returns the platform-specific application data directory.
// SOKKI_DATA_DIR overrides it.
func DataDir() string {
	if dir := os.Getenv("SOKKI_DATA_DIR"); dir != "" {
		return dir
	}
	return paths.Dir(paths.Data)
}
