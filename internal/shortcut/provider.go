package shortcut

import (
	"time"

	"github.com/sokki-app/sokki/internal/config"
)

// Activation is delivered when a registered shortcut fires.
type Activation struct {
	Descriptor Descriptor
	At         time.Time
}

// Provider is the OS facility that delivers key events for a descriptor.
//
// onFire is called on a goroutine owned by the provider, once per key-down
// transition. Unregister of a descriptor that is not registered is a no-op.
type Provider interface {
	Register(d Descriptor, onFire func(Activation)) error
	Unregister(d Descriptor) error
}

// Activator performs the side effect of a fired shortcut.
type Activator interface {
	Activate(a Activation)
}

// ActivatorFunc adapts a function to Activator.
type ActivatorFunc func(Activation)

func (f ActivatorFunc) Activate(a Activation) { f(a) }

// Store is the persistence boundary for the shortcut record.
type Store interface {
	Load() (config.Shortcut, error)
	Save(sc config.Shortcut) error
}
