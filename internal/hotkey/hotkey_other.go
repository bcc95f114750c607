//go:build !linux

package hotkey

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	xhotkey "golang.design/x/hotkey"

	"github.com/sokki-app/sokki/internal/shortcut"
)

type binding struct {
	hk   *xhotkey.Hotkey
	stop chan struct{}
}

// Provider implements shortcut.Provider on top of golang.design/x/hotkey.
type Provider struct {
	log zerolog.Logger

	mu     sync.Mutex
	active map[shortcut.Descriptor]*binding
}

func New(log zerolog.Logger) *Provider {
	return &Provider{
		log:    log,
		active: make(map[shortcut.Descriptor]*binding),
	}
}

func (p *Provider) Register(d shortcut.Descriptor, onFire func(shortcut.Activation)) error {
	key, ok := keyCodes[d.Key]
	if !ok {
		return fmt.Errorf("no key code for %q", d.Key.String())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.active[d]; ok {
		return fmt.Errorf("%s is already registered", d)
	}

	hk := xhotkey.New(modifiersFor(d.Mods), key)
	if err := hk.Register(); err != nil {
		return err
	}

	b := &binding{hk: hk, stop: make(chan struct{})}
	p.active[d] = b
	go b.listen(d, onFire)

	p.log.Debug().Str("shortcut", d.String()).Msg("Hotkey registered")
	return nil
}

func (p *Provider) Unregister(d shortcut.Descriptor) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.active[d]
	if !ok {
		return nil
	}
	delete(p.active, d)

	// The listener keeps draining events until the OS side is gone.
	err := b.hk.Unregister()
	close(b.stop)
	if err != nil {
		return fmt.Errorf("unregister %s: %w", d, err)
	}

	p.log.Debug().Str("shortcut", d.String()).Msg("Hotkey unregistered")
	return nil
}

// Close unregisters everything still active.
func (p *Provider) Close() error {
	p.mu.Lock()
	ds := make([]shortcut.Descriptor, 0, len(p.active))
	for d := range p.active {
		ds = append(ds, d)
	}
	p.mu.Unlock()

	var firstErr error
	for _, d := range ds {
		if err := p.Unregister(d); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// listen turns the keydown/keyup stream into one activation per physical
// press. onFire runs on its own goroutine so a slow handler never stalls the
// library's event loop.
func (b *binding) listen(d shortcut.Descriptor, onFire func(shortcut.Activation)) {
	down, up := b.hk.Keydown(), b.hk.Keyup()
	filter := shortcut.NewPressFilter(shortcut.RepeatWindow)

	for {
		select {
		case <-b.stop:
			return
		case _, ok := <-down:
			if !ok {
				return
			}
			now := time.Now()
			if filter.Feed(shortcut.KeyDown, now) {
				go onFire(shortcut.Activation{Descriptor: d, At: now})
			}
		case _, ok := <-up:
			if !ok {
				return
			}
			filter.Feed(shortcut.KeyUp, time.Now())
		}
	}
}
