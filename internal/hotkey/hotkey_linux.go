//go:build linux

package hotkey

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sokki-app/sokki/internal/shortcut"
)

const (
	evKey      = 1
	keyRelease = 0
	keyPress   = 1
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

var errNoKeyboards = errors.New("no keyboard devices found (is user in 'input' group?)")

type binding struct {
	files []*os.File
	stop  chan struct{}
	once  sync.Once
}

func (b *binding) close() {
	b.once.Do(func() {
		close(b.stop)
		for _, f := range b.files {
			f.Close()
		}
	})
}

// Provider implements shortcut.Provider by watching every keyboard under
// /dev/input. It observes keys without grabbing them.
type Provider struct {
	log      zerolog.Logger
	inputDir string
	sysDir   string

	mu     sync.Mutex
	active map[shortcut.Descriptor]*binding
}

func New(log zerolog.Logger) *Provider {
	return &Provider{
		log:      log,
		inputDir: "/dev/input",
		sysDir:   "/sys/class/input",
		active:   make(map[shortcut.Descriptor]*binding),
	}
}

func (p *Provider) Register(d shortcut.Descriptor, onFire func(shortcut.Activation)) error {
	code, ok := keyCodes[d.Key]
	if !ok {
		return fmt.Errorf("no key code for %q", d.Key.String())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.active[d]; ok {
		return fmt.Errorf("%s is already registered", d)
	}

	keyboards, err := findKeyboards(p.inputDir, p.sysDir)
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return errNoKeyboards
	}

	b := &binding{stop: make(chan struct{})}
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			p.log.Debug().Err(err).Str("device", path).Msg("Skipping keyboard")
			continue
		}
		b.files = append(b.files, f)
	}
	if len(b.files) == 0 {
		return fmt.Errorf("could not open any of %d keyboard device(s) (run: sudo usermod -aG input $USER, then re-login)", len(keyboards))
	}

	fire := func(at time.Time) {
		go onFire(shortcut.Activation{Descriptor: d, At: at})
	}
	for _, f := range b.files {
		go func(f *os.File) {
			err := watch(f, code, d.Mods, b.stop, fire)
			if err != nil && !errors.Is(err, os.ErrClosed) {
				p.log.Warn().Err(err).Str("device", f.Name()).Msg("Keyboard stopped")
			}
		}(f)
	}
	p.active[d] = b

	p.log.Debug().Str("shortcut", d.String()).Int("keyboards", len(b.files)).Msg("Hotkey registered")
	return nil
}

// Unregister closes the devices and returns without waiting for the readers.
func (p *Provider) Unregister(d shortcut.Descriptor) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.active[d]
	if !ok {
		return nil
	}
	delete(p.active, d)
	b.close()

	p.log.Debug().Str("shortcut", d.String()).Msg("Hotkey unregistered")
	return nil
}

// Close unregisters everything still active.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for d, b := range p.active {
		b.close()
		delete(p.active, d)
	}
	return nil
}

// watch reads input events from r until it fails or stop is closed, calling
// fire once per physical press of key while exactly mods are held.
func watch(r io.Reader, key uint16, mods shortcut.Modifiers, stop <-chan struct{}, fire func(time.Time)) error {
	br := bufio.NewReaderSize(r, inputEventSize*16)
	ev := make([]byte, inputEventSize)
	held := make(map[uint16]bool)
	filter := shortcut.NewPressFilter(shortcut.RepeatWindow)

	for {
		if _, err := io.ReadFull(br, ev); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		select {
		case <-stop:
			return nil
		default:
		}

		evType := binary.LittleEndian.Uint16(ev[16:])
		evCode := binary.LittleEndian.Uint16(ev[18:])
		evValue := int32(binary.LittleEndian.Uint32(ev[20:]))
		if evType != evKey {
			continue
		}

		// Value 2 is the kernel's auto-repeat; a held key is one press.
		if _, ok := modifierCodes[evCode]; ok {
			switch evValue {
			case keyPress:
				held[evCode] = true
			case keyRelease:
				delete(held, evCode)
			}
			continue
		}
		if evCode != key {
			continue
		}

		sec := int64(binary.LittleEndian.Uint64(ev[0:]))
		usec := int64(binary.LittleEndian.Uint64(ev[8:]))
		at := time.Unix(sec, usec*int64(time.Microsecond))

		switch evValue {
		case keyPress:
			if heldModifiers(held) == mods && filter.Feed(shortcut.KeyDown, at) {
				fire(at)
			}
		case keyRelease:
			filter.Feed(shortcut.KeyUp, at)
		}
	}
}

func heldModifiers(held map[uint16]bool) shortcut.Modifiers {
	var mods shortcut.Modifiers
	for code := range held {
		mods |= modifierCodes[code]
	}
	return mods
}

func findKeyboards(inputDir, sysDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(sysDir, e.Name()) {
			keyboards = append(keyboards, filepath.Join(inputDir, e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(sysDir, eventName string) bool {
	capsPath := filepath.Join(sysDir, eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}
