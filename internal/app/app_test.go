package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sokki-app/sokki/internal/config"
	"github.com/sokki-app/sokki/internal/shortcut"
)

// Mock implementations for testing
type mockWindow struct {
	mu      sync.Mutex
	shows   int
	focuses int
	showErr error
}

func (m *mockWindow) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.showErr != nil {
		return m.showErr
	}
	m.shows++
	return nil
}

func (m *mockWindow) Focus() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focuses++
	return nil
}

func (m *mockWindow) activations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}

type mockStatus struct {
	mu          sync.Mutex
	label       string
	enabled     bool
	errMsg      string
	activatedAt time.Time
}

func (m *mockStatus) SetShortcut(d *shortcut.Descriptor, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.label = ""
	if d != nil {
		m.label = d.String()
	}
	m.enabled = enabled
}

func (m *mockStatus) SetActivated(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activatedAt = at
}

func (m *mockStatus) SetError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errMsg = msg
}

var defaultDescriptor = shortcut.Descriptor{Mods: shortcut.ModPrimary | shortcut.ModShift, Key: 'M'}

type fixture struct {
	app      *App
	provider *shortcut.FakeProvider
	store    *config.Store
	win      *mockWindow
	status   *mockStatus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		provider: shortcut.NewFakeProvider(),
		store:    config.NewStore(t.TempDir()),
		win:      &mockWindow{},
		status:   &mockStatus{},
	}
	f.app = New(Config{
		Provider:      f.provider,
		Store:         f.store,
		Window:        f.win,
		Logger:        zerolog.Nop(),
		StatusUpdater: f.status,
	})
	return f
}

func TestFreshInstallActivatesWindow(t *testing.T) {
	f := newFixture(t)
	f.app.Start()

	st, err := f.app.ShortcutState()
	if err != nil {
		t.Fatal(err)
	}
	if st.Descriptor == nil || *st.Descriptor != defaultDescriptor || !st.Enabled {
		t.Fatalf("expected default shortcut enabled, got %+v", st)
	}

	if !f.provider.Fire(defaultDescriptor) {
		t.Fatal("default shortcut not registered")
	}
	if f.win.activations() != 1 {
		t.Errorf("expected window shown once, got %d", f.win.activations())
	}
	if f.win.focuses != 1 {
		t.Errorf("expected window focused once, got %d", f.win.focuses)
	}
	if !f.status.enabled || f.status.label != defaultDescriptor.String() {
		t.Errorf("status not published: %+v", f.status)
	}
	if f.status.activatedAt.IsZero() {
		t.Error("activation not reported to status")
	}
}

func TestUpdateGlobalShortcut(t *testing.T) {
	f := newFixture(t)
	f.app.Start()

	msg, err := f.app.UpdateGlobalShortcut(true, true, false, "K")
	if err != nil {
		t.Fatalf("UpdateGlobalShortcut: %v", err)
	}
	if msg != "Shortcut updated successfully" {
		t.Errorf("unexpected message %q", msg)
	}

	saved, err := f.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	expected := config.Shortcut{CtrlKey: true, ShiftKey: true, AltKey: false, Key: "K"}
	if saved != expected {
		t.Errorf("expected %+v saved, got %+v", expected, saved)
	}

	k := shortcut.Descriptor{Mods: shortcut.ModPrimary | shortcut.ModShift, Key: 'K'}
	if f.provider.Fire(defaultDescriptor) {
		t.Error("old shortcut still registered")
	}
	f.provider.Fire(k)
	if f.win.activations() != 1 {
		t.Errorf("expected activation from new shortcut, got %d", f.win.activations())
	}
	if f.status.label != k.String() {
		t.Errorf("expected status label %s, got %s", k, f.status.label)
	}
}

func TestUpdateGlobalShortcutUnsupportedKey(t *testing.T) {
	f := newFixture(t)
	f.app.Start()

	_, err := f.app.UpdateGlobalShortcut(false, false, false, "$")

	var cerr *CommandError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if cerr.Kind != KindUnsupportedKey {
		t.Errorf("expected KindUnsupportedKey, got %v", cerr.Kind)
	}
	if cerr.Error() != "Unsupported key: $" {
		t.Errorf("unexpected message %q", cerr.Error())
	}

	if _, err := f.store.Load(); !errors.Is(err, config.ErrNotFound) {
		t.Errorf("persisted file changed: %v", err)
	}
	st, _ := f.app.ShortcutState()
	if !st.Enabled || *st.Descriptor != defaultDescriptor {
		t.Errorf("state changed: %+v", st)
	}
}

func TestUpdateGlobalShortcutRegistrationFailure(t *testing.T) {
	f := newFixture(t)
	f.app.Start()

	claimed := shortcut.Descriptor{Mods: shortcut.ModAlt, Key: 'T'}
	f.provider.Refuse(claimed, errors.New("already grabbed"))

	_, err := f.app.UpdateGlobalShortcut(false, false, true, "t")

	var cerr *CommandError
	if !errors.As(err, &cerr) || cerr.Kind != KindRegistration {
		t.Fatalf("expected registration CommandError, got %v", err)
	}
	if !strings.HasPrefix(cerr.Error(), "Failed to register shortcut: ") {
		t.Errorf("unexpected message %q", cerr.Error())
	}
	if f.status.enabled || f.status.label != "" {
		t.Errorf("expected status to show no shortcut, got %+v", f.status)
	}
}

func TestSetGlobalShortcutEnabled(t *testing.T) {
	f := newFixture(t)
	f.app.Start()

	msg, err := f.app.SetGlobalShortcutEnabled(false)
	if err != nil || msg != "Shortcut disabled" {
		t.Fatalf("disable: %q, %v", msg, err)
	}

	f.provider.Fire(defaultDescriptor)
	if f.win.activations() != 0 {
		t.Error("window activated while shortcut disabled")
	}
	if f.status.enabled {
		t.Error("status still shows enabled")
	}

	msg, err = f.app.SetGlobalShortcutEnabled(true)
	if err != nil || msg != "Shortcut enabled" {
		t.Fatalf("enable: %q, %v", msg, err)
	}
	f.provider.Fire(defaultDescriptor)
	if f.win.activations() != 1 {
		t.Errorf("expected one activation after enabling, got %d", f.win.activations())
	}

	if _, err := f.store.Load(); !errors.Is(err, config.ErrNotFound) {
		t.Errorf("toggling must not persist: %v", err)
	}
}

func TestSetGlobalShortcutEnabledFailure(t *testing.T) {
	f := newFixture(t)
	f.app.Start()

	if _, err := f.app.SetGlobalShortcutEnabled(false); err != nil {
		t.Fatal(err)
	}
	f.provider.Refuse(defaultDescriptor, errors.New("busy"))

	_, err := f.app.SetGlobalShortcutEnabled(true)
	var cerr *CommandError
	if !errors.As(err, &cerr) || cerr.Kind != KindRegistration {
		t.Fatalf("expected registration CommandError, got %v", err)
	}
	if cerr.Error() != "Failed to re-register shortcut: busy" {
		t.Errorf("unexpected message %q", cerr.Error())
	}
}

func TestStartRegistrationFailureKeepsRunning(t *testing.T) {
	f := newFixture(t)
	f.provider.Refuse(defaultDescriptor, errors.New("claimed by another app"))

	f.app.Start()

	if f.status.errMsg == "" {
		t.Error("expected error published to status")
	}
	st, err := f.app.ShortcutState()
	if err != nil {
		t.Fatal(err)
	}
	if st.Phase != shortcut.PhaseUnregistered {
		t.Errorf("expected unregistered, got %v", st.Phase)
	}

	// The app still accepts a new shortcut afterwards.
	if _, err := f.app.UpdateGlobalShortcut(true, false, true, "8"); err != nil {
		t.Fatalf("UpdateGlobalShortcut: %v", err)
	}
}

func TestShowWindowFailureReported(t *testing.T) {
	f := newFixture(t)
	f.win.showErr = errors.New("no display")

	f.app.ShowWindow()

	if f.status.errMsg != "no display" {
		t.Errorf("expected show error on status, got %q", f.status.errMsg)
	}
	if f.win.focuses != 0 {
		t.Error("focus should be skipped when show fails")
	}
}

func TestShutdownReleasesShortcut(t *testing.T) {
	f := newFixture(t)
	f.app.Start()

	if err := f.app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if n := len(f.provider.Registered()); n != 0 {
		t.Errorf("expected nothing registered after shutdown, got %d", n)
	}

	_, err := f.app.UpdateGlobalShortcut(true, true, false, "K")
	var cerr *CommandError
	if !errors.As(err, &cerr) || cerr.Kind != KindInternal {
		t.Errorf("expected internal CommandError after shutdown, got %v", err)
	}
	if !errors.Is(err, shortcut.ErrClosed) {
		t.Errorf("expected ErrClosed in chain, got %v", err)
	}
}

func TestActivationWhileDisabledNotReported(t *testing.T) {
	f := newFixture(t)
	f.app.Start()
	if _, err := f.app.SetGlobalShortcutEnabled(false); err != nil {
		t.Fatal(err)
	}

	f.provider.Fire(defaultDescriptor)
	if !f.status.activatedAt.IsZero() {
		t.Error("activation reported while shortcut disabled")
	}
}

func TestStartAppliesShortcutOverride(t *testing.T) {
	f := newFixture(t)
	override := config.Shortcut{CtrlKey: true, AltKey: true, Key: "n"}
	f.app = New(Config{
		Provider:      f.provider,
		Store:         f.store,
		Window:        f.win,
		Logger:        zerolog.Nop(),
		StatusUpdater: f.status,
		Shortcut:      &override,
	})

	f.app.Start()

	n := shortcut.Descriptor{Mods: shortcut.ModPrimary | shortcut.ModAlt, Key: 'N'}
	st, err := f.app.ShortcutState()
	if err != nil {
		t.Fatal(err)
	}
	if st.Descriptor == nil || *st.Descriptor != n || !st.Enabled {
		t.Fatalf("expected %v enabled, got %+v", n, st)
	}
	if f.provider.Fire(defaultDescriptor) {
		t.Error("default shortcut still registered")
	}
	saved, err := f.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved != override {
		t.Errorf("expected %+v saved, got %+v", override, saved)
	}
	if f.status.label != n.String() {
		t.Errorf("expected status label %s, got %s", n, f.status.label)
	}
}

func TestStartInvalidOverrideKeepsDefault(t *testing.T) {
	f := newFixture(t)
	override := config.Shortcut{CtrlKey: true, Key: "$"}
	f.app = New(Config{
		Provider:      f.provider,
		Store:         f.store,
		Window:        f.win,
		Logger:        zerolog.Nop(),
		StatusUpdater: f.status,
		Shortcut:      &override,
	})

	f.app.Start()

	if f.status.errMsg != "Unsupported key: $" {
		t.Errorf("expected unsupported key on status, got %q", f.status.errMsg)
	}
	if !f.provider.Fire(defaultDescriptor) {
		t.Error("default shortcut should stay registered")
	}
}

func TestParseAccelerator(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected config.Shortcut
		wantErr  bool
	}{
		{
			name:     "ctrl shift letter",
			input:    "Ctrl+Shift+K",
			expected: config.Shortcut{CtrlKey: true, ShiftKey: true, Key: "K"},
		},
		{
			name:     "mac names",
			input:    "cmd+option+7",
			expected: config.Shortcut{CtrlKey: true, AltKey: true, Key: "7"},
		},
		{
			name:     "spaces and case",
			input:    " CONTROL + alt + m ",
			expected: config.Shortcut{CtrlKey: true, AltKey: true, Key: "m"},
		},
		{
			name:     "bare key",
			input:    "q",
			expected: config.Shortcut{Key: "q"},
		},
		{
			name:     "key left for validation",
			input:    "Ctrl+$",
			expected: config.Shortcut{CtrlKey: true, Key: "$"},
		},
		{
			name:    "no key",
			input:   "Ctrl+Shift+",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "unknown modifier",
			input:   "Super+K",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAccelerator(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAccelerator(%q): %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}
