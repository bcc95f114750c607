package window

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
)

const (
	notesFile   = "notes.md"
	notesHeader = "# Sokki\n\n"
)

// Handle is the window the global shortcut brings forward.
type Handle interface {
	Show() error
	Focus() error
}

// Notes shows the notes file in the user's default editor. The file lives
// in the data directory and is created on first Show.
type Notes struct {
	path string
	open func(path string) error
}

func NewNotes(dir string) *Notes {
	return &Notes{
		path: filepath.Join(dir, notesFile),
		open: browser.OpenFile,
	}
}

// Path returns the notes file location.
func (n *Notes) Path() string { return n.path }

func (n *Notes) Show() error {
	if err := n.ensureFile(); err != nil {
		return err
	}
	if err := n.open(n.path); err != nil {
		return fmt.Errorf("open notes: %w", err)
	}
	return nil
}

// Focus is a no-op: the OS handler raises the editor when it opens the file.
func (n *Notes) Focus() error { return nil }

func (n *Notes) ensureFile() error {
	_, err := os.Stat(n.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat notes: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(n.path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(n.path, []byte(notesHeader), 0644); err != nil {
		return fmt.Errorf("create notes: %w", err)
	}
	return nil
}
