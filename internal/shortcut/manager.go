package shortcut

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sokki-app/sokki/internal/config"
)

type Config struct {
	Provider  Provider
	Store     Store
	Activator Activator // Optional - can be nil
	Logger    zerolog.Logger
}

// Manager owns the single global shortcut. All transitions of the shared
// state happen under mu, including the provider and store calls they
// guard, so the enabled flag and the registered descriptor never disagree.
type Manager struct {
	provider  Provider
	store     Store
	activator Activator
	log       zerolog.Logger

	mu       sync.Mutex
	st       state
	poisoned bool
	closed   bool
}

func New(cfg Config) *Manager {
	return &Manager{
		provider:  cfg.Provider,
		store:     cfg.Store,
		activator: cfg.Activator,
		log:       cfg.Logger,
	}
}

// Init registers the saved shortcut, or the default one when nothing
// usable is saved. A registration failure is returned for logging and
// leaves the manager unregistered; it is never fatal.
func (m *Manager) Init() error {
	d := m.loadOrDefault()

	return m.withLock("init", func() error {
		m.releaseLocked()

		if err := m.provider.Register(d, m.fire); err != nil {
			m.st = state{}
			m.log.Error().Err(err).Str("shortcut", d.String()).Msg("Failed to register global shortcut")
			return &RegistrationError{Descriptor: d, Err: err}
		}

		m.st = state{current: &d, enabled: true}
		m.log.Info().Str("shortcut", d.String()).Msg("Registered global shortcut")
		return nil
	})
}

func (m *Manager) loadOrDefault() Descriptor {
	def, _ := FromConfig(config.DefaultShortcut())

	sc, err := m.store.Load()
	if err != nil {
		var perr *config.ParseError
		switch {
		case errors.Is(err, config.ErrNotFound):
			m.log.Info().Str("shortcut", def.String()).Msg("No saved shortcut, using default")
		case errors.As(err, &perr):
			m.log.Warn().Err(err).Str("shortcut", def.String()).Msg("Saved shortcut is corrupt, using default")
		default:
			m.log.Warn().Err(err).Str("shortcut", def.String()).Msg("Failed to read saved shortcut, using default")
		}
		return def
	}

	d, err := FromConfig(sc)
	if err != nil {
		m.log.Warn().Err(err).Str("shortcut", def.String()).Msg("Saved shortcut is invalid, using default")
		return def
	}
	return d
}

// Update replaces the shortcut with sc and persists it.
//
// An unsupported key changes nothing. Once the key is valid the old
// shortcut is released first; if the new one cannot be registered the
// manager ends up unregistered and the old shortcut is not restored. A
// failed save is reported as *PersistenceError but the new registration
// stays in effect.
func (m *Manager) Update(sc config.Shortcut) (Descriptor, error) {
	d, err := FromConfig(sc)
	if err != nil {
		return Descriptor{}, err
	}

	err = m.withLock("update", func() error {
		m.releaseLocked()

		if err := m.provider.Register(d, m.fire); err != nil {
			m.st = state{}
			m.log.Error().Err(err).Str("shortcut", d.String()).Msg("Failed to register global shortcut")
			return &RegistrationError{Descriptor: d, Err: err}
		}
		m.st = state{current: &d, enabled: true}

		if err := m.store.Save(sc); err != nil {
			m.log.Error().Err(err).Str("shortcut", d.String()).Msg("Failed to save shortcut")
			return &PersistenceError{Err: err}
		}

		m.log.Info().Str("shortcut", d.String()).Msg("Updated global shortcut")
		return nil
	})
	return d, err
}

// SetEnabled releases or re-registers the current shortcut without
// touching the saved config.
func (m *Manager) SetEnabled(enabled bool) error {
	return m.withLock("set enabled", func() error {
		switch {
		case m.st.current == nil:
			if enabled {
				return ErrNoShortcut
			}
			return nil
		case m.st.enabled == enabled:
			return nil
		case !enabled:
			m.releaseLocked()
			m.log.Info().Str("shortcut", m.st.current.String()).Msg("Disabled global shortcut")
			return nil
		}

		d := *m.st.current
		if err := m.provider.Register(d, m.fire); err != nil {
			m.log.Error().Err(err).Str("shortcut", d.String()).Msg("Failed to re-register global shortcut")
			return &RegistrationError{Descriptor: d, Err: err}
		}
		m.st.enabled = true
		m.log.Info().Str("shortcut", d.String()).Msg("Enabled global shortcut")
		return nil
	})
}

// Shutdown releases the shortcut. The manager cannot be used afterwards.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if m.st.enabled {
		if err := m.provider.Unregister(*m.st.current); err != nil {
			m.log.Warn().Err(err).Str("shortcut", m.st.current.String()).Msg("Failed to unregister global shortcut")
		}
	}
	m.st = state{}
	return nil
}

// State returns a copy of the shared state.
func (m *Manager) State() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.poisoned {
		return State{}, &LockError{Op: "state"}
	}
	return m.st.snapshot(), nil
}

// fire is handed to the provider on every registration. Events for a
// descriptor that is no longer live are dropped.
func (m *Manager) fire(a Activation) {
	m.mu.Lock()
	live := !m.poisoned && !m.closed && m.st.live(a.Descriptor)
	m.mu.Unlock()

	if !live {
		m.log.Debug().Str("shortcut", a.Descriptor.String()).Msg("Ignoring stale shortcut event")
		return
	}
	if m.activator != nil {
		m.activator.Activate(a)
	}
}

// releaseLocked unregisters the live descriptor, best effort. The
// descriptor itself is retained.
func (m *Manager) releaseLocked() {
	if !m.st.enabled {
		return
	}
	if err := m.provider.Unregister(*m.st.current); err != nil {
		m.log.Warn().Err(err).Str("shortcut", m.st.current.String()).Msg("Failed to unregister global shortcut")
	}
	m.st.enabled = false
}

// withLock runs fn while holding mu. A panic inside fn leaves the state
// unknown, so it poisons the manager for every later call.
func (m *Manager) withLock(op string, fn func() error) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.poisoned {
		return &LockError{Op: op}
	}
	if m.closed {
		return ErrClosed
	}

	defer func() {
		if r := recover(); r != nil {
			m.poisoned = true
			m.log.Error().Str("op", op).Interface("panic", r).Msg("Shortcut state poisoned")
			err = &LockError{Op: op, Cause: r}
		}
	}()

	return fn()
}
