package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sokki-app/sokki/internal/config"
	"github.com/sokki-app/sokki/internal/shortcut"
	"github.com/sokki-app/sokki/internal/window"
)

// StatusUpdater is an interface for updating status (e.g., tray menu)
type StatusUpdater interface {
	SetShortcut(d *shortcut.Descriptor, enabled bool)
	SetActivated(at time.Time)
	SetError(msg string)
}

type Config struct {
	Provider      shortcut.Provider
	Store         shortcut.Store
	Window        window.Handle
	Logger        zerolog.Logger
	StatusUpdater StatusUpdater // Optional - can be nil
	// Shortcut, when set, replaces the saved shortcut at Start.
	Shortcut *config.Shortcut
}

type App struct {
	shortcuts *shortcut.Manager
	window    window.Handle
	log       zerolog.Logger
	status    StatusUpdater
	override  *config.Shortcut
}

func New(cfg Config) *App {
	a := &App{
		window: cfg.Window,
		log:    cfg.Logger,
		status:   cfg.StatusUpdater,
		override: cfg.Shortcut,
	}
	a.shortcuts = shortcut.New(shortcut.Config{
		Provider:  cfg.Provider,
		Store:     cfg.Store,
		Activator: a,
		Logger:    cfg.Logger.With().Str("component", "shortcut").Logger(),
	})
	return a
}

// Start registers the saved or default shortcut. Failure leaves the app
// running without a global shortcut.
func (a *App) Start() {
	if err := a.shortcuts.Init(); err != nil {
		a.log.Error().Err(err).Msg("Global shortcut inactive")
		if a.status != nil {
			a.status.SetError(err.Error())
		}
	}
	if a.override != nil {
		sc := *a.override
		if _, err := a.UpdateGlobalShortcut(sc.CtrlKey, sc.ShiftKey, sc.AltKey, sc.Key); err != nil {
			a.log.Error().Err(err).Msg("Failed to apply shortcut override")
			if a.status != nil {
				a.status.SetError(err.Error())
			}
		}
		return
	}
	a.publishState()
}

// Activate runs on every fire of the live shortcut.
func (a *App) Activate(act shortcut.Activation) {
	a.log.Info().Str("shortcut", act.Descriptor.String()).Msg("Shortcut activated")
	a.ShowWindow()
	if a.status != nil {
		a.status.SetActivated(act.At)
	}
}

// ShowWindow shows and focuses the notes window.
func (a *App) ShowWindow() {
	if err := a.window.Show(); err != nil {
		a.log.Error().Err(err).Msg("Failed to show window")
		if a.status != nil {
			a.status.SetError(err.Error())
		}
		return
	}
	if err := a.window.Focus(); err != nil {
		a.log.Warn().Err(err).Msg("Failed to focus window")
	}
}

// UpdateGlobalShortcut replaces and persists the global shortcut.
func (a *App) UpdateGlobalShortcut(ctrlKey, shiftKey, altKey bool, key string) (string, error) {
	_, err := a.shortcuts.Update(config.Shortcut{
		CtrlKey:  ctrlKey,
		ShiftKey: shiftKey,
		AltKey:   altKey,
		Key:      key,
	})
	a.publishState()
	if err != nil {
		return "", commandError(err)
	}
	return "Shortcut updated successfully", nil
}

// SetGlobalShortcutEnabled disables the shortcut temporarily, e.g. while a
// settings surface captures the same keys, or restores it.
func (a *App) SetGlobalShortcutEnabled(enabled bool) (string, error) {
	err := a.shortcuts.SetEnabled(enabled)
	a.publishState()
	if err != nil {
		cerr := commandError(err)
		var rerr *shortcut.RegistrationError
		if errors.As(err, &rerr) {
			cerr.Msg = fmt.Sprintf("Failed to re-register shortcut: %v", rerr.Err)
		}
		return "", cerr
	}
	if enabled {
		return "Shortcut enabled", nil
	}
	return "Shortcut disabled", nil
}

// ShortcutState returns the current shortcut state.
func (a *App) ShortcutState() (shortcut.State, error) {
	return a.shortcuts.State()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info().Msg("Releasing global shortcut")
	return a.shortcuts.Shutdown()
}

func (a *App) publishState() {
	if a.status == nil {
		return
	}
	st, err := a.shortcuts.State()
	if err != nil {
		a.status.SetError(err.Error())
		return
	}
	a.status.SetShortcut(st.Descriptor, st.Enabled)
}

// ParseAccelerator splits an accelerator such as "Ctrl+Shift+K" into the raw
// shortcut fields. Cmd and Option are accepted as aliases of Ctrl and Alt.
// The key itself is validated by UpdateGlobalShortcut.
func ParseAccelerator(s string) (config.Shortcut, error) {
	var sc config.Shortcut
	parts := strings.Split(s, "+")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == len(parts)-1 {
			if part == "" {
				return config.Shortcut{}, fmt.Errorf("accelerator %q has no key", s)
			}
			sc.Key = part
			break
		}
		switch strings.ToLower(part) {
		case "ctrl", "control", "cmd", "command":
			sc.CtrlKey = true
		case "shift":
			sc.ShiftKey = true
		case "alt", "option":
			sc.AltKey = true
		default:
			return config.Shortcut{}, fmt.Errorf("accelerator %q: unknown modifier %q", s, part)
		}
	}
	return sc, nil
}

// ErrorKind lets the UI tell command failures apart.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUnsupportedKey
	KindRegistration
	KindPersistence
	KindLock
)

// CommandError is the error returned by the UI commands. Its message is
// meant for display.
type CommandError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *CommandError) Error() string { return e.Msg }

func (e *CommandError) Unwrap() error { return e.Err }

func commandError(err error) *CommandError {
	var (
		uerr *shortcut.UnsupportedKeyError
		rerr *shortcut.RegistrationError
		perr *shortcut.PersistenceError
	)

	switch {
	case errors.As(err, &uerr):
		return &CommandError{Kind: KindUnsupportedKey, Msg: "Unsupported key: " + uerr.Key, Err: err}
	case errors.As(err, &rerr):
		return &CommandError{Kind: KindRegistration, Msg: fmt.Sprintf("Failed to register shortcut: %v", rerr.Err), Err: err}
	case errors.As(err, &perr):
		return &CommandError{Kind: KindPersistence, Msg: fmt.Sprintf("Failed to save shortcut config: %v", perr.Err), Err: err}
	case errors.Is(err, shortcut.ErrLockAcquisition):
		return &CommandError{Kind: KindLock, Msg: "Failed to acquire lock", Err: err}
	default:
		return &CommandError{Kind: KindInternal, Msg: err.Error(), Err: err}
	}
}
