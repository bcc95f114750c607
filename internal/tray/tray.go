package tray

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/getlantern/systray"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"

	"github.com/sokki-app/sokki/internal/app"
	"github.com/sokki-app/sokki/internal/config"
	"github.com/sokki-app/sokki/internal/logging"
	"github.com/sokki-app/sokki/internal/shortcut"
)

const defaultTooltip = "Sokki: quick notes"

// shortcutKeys are the keys offered in the Change Shortcut menu.
const shortcutKeys = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// modifierItems lists the Change Shortcut modifier toggles in menu order.
var modifierItems = []shortcut.Modifiers{shortcut.ModPrimary, shortcut.ModShift, shortcut.ModAlt}

type UI struct {
	app     *app.App
	version string
	commit  string
	log     zerolog.Logger

	mu       sync.Mutex
	current  *shortcut.Descriptor
	enabled  bool
	ready    bool
	errTimer *time.Timer

	// Menu items
	mShow     *systray.MenuItem
	mShortcut *systray.MenuItem
	mEnabled  *systray.MenuItem
	mCopy     *systray.MenuItem
	mMods     map[shortcut.Modifiers]*systray.MenuItem
	mKeys     map[shortcut.Key]*systray.MenuItem
}

func New(application *app.App, version, commit string, log zerolog.Logger) *UI {
	return &UI{
		app:     application,
		version: version,
		commit:  commit,
		log:     log,
	}
}

// SetApp sets the app reference (for circular dependency resolution)
func (u *UI) SetApp(application *app.App) {
	u.app = application
}

// Run blocks on the platform event loop until Quit.
func (u *UI) Run(ctx context.Context) error {
	systray.Run(u.onReady, u.onExit)
	return nil
}

// Quit stops the event loop.
func (u *UI) Quit() {
	systray.Quit()
}

// SetShortcut updates the shortcut label and checkboxes.
func (u *UI) SetShortcut(d *shortcut.Descriptor, enabled bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.current = d
	u.enabled = enabled
	if u.ready {
		u.refreshLocked()
	}
}

// SetError shows msg in the tooltip for a while.
func (u *UI) SetError(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.ready {
		return
	}
	u.flashLocked("Sokki: " + msg)
}

// SetActivated marks the last time the shortcut opened the notes.
func (u *UI) SetActivated(at time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.ready {
		return
	}
	u.flashLocked("Sokki: opened at " + at.Format("15:04:05"))
}

// flashLocked shows tooltip for a while before restoring the default.
func (u *UI) flashLocked(tooltip string) {
	systray.SetTooltip(tooltip)
	if u.errTimer != nil {
		u.errTimer.Stop()
	}
	u.errTimer = time.AfterFunc(10*time.Second, func() {
		systray.SetTooltip(defaultTooltip)
	})
}

func (u *UI) onReady() {
	systray.SetTitle("📝")
	systray.SetTooltip(defaultTooltip)

	// Build menu
	u.mShow = systray.AddMenuItem("Show Notes", "Show the notes window")
	systray.AddSeparator()

	u.mShortcut = systray.AddMenuItem(shortcutTitle(nil), "Global shortcut")
	u.mShortcut.Disable()
	u.mEnabled = systray.AddMenuItemCheckbox("Enable Global Shortcut", "Turn the global shortcut on or off", false)
	u.mCopy = systray.AddMenuItem("Copy Shortcut", "Copy the shortcut to the clipboard")
	mChange := systray.AddMenuItem("Change Shortcut", "Pick the modifiers and key of the global shortcut")
	u.buildChangeMenu(mChange)

	systray.AddSeparator()
	mLogs := systray.AddMenuItem("Open Logs", "View application logs")
	mAbout := systray.AddMenuItem("About", "About Sokki")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	u.mu.Lock()
	u.ready = true
	u.refreshLocked()
	u.mu.Unlock()

	// Event loop
	go u.handleEvents(mLogs, mAbout, mQuit)

	// Hotkey registration needs the event loop running on macOS.
	go u.app.Start()
}

func (u *UI) handleEvents(mLogs, mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mShow.ClickedCh:
			u.app.ShowWindow()
		case <-u.mEnabled.ClickedCh:
			u.toggleEnabled()
		case <-u.mCopy.ClickedCh:
			u.copyShortcut()
		case <-mLogs.ClickedCh:
			u.openLogs()
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) buildChangeMenu(parent *systray.MenuItem) {
	u.mMods = make(map[shortcut.Modifiers]*systray.MenuItem)
	for _, mod := range modifierItems {
		item := parent.AddSubMenuItem(modifierName(mod), "")
		u.mMods[mod] = item

		go func(m shortcut.Modifiers, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				u.changeShortcut(func(sc config.Shortcut) config.Shortcut {
					return toggleModifier(sc, m)
				})
			}
		}(mod, item)
	}

	mKeys := parent.AddSubMenuItem("Key", "")
	u.mKeys = make(map[shortcut.Key]*systray.MenuItem)
	for i := 0; i < len(shortcutKeys); i++ {
		key := shortcut.Key(shortcutKeys[i])
		item := mKeys.AddSubMenuItem(key.String(), "")
		u.mKeys[key] = item

		go func(k shortcut.Key, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				u.changeShortcut(func(sc config.Shortcut) config.Shortcut {
					sc.Key = k.String()
					return sc
				})
			}
		}(key, item)
	}
}

// changeShortcut applies edit to the current shortcut, or to the default
// when none is registered.
func (u *UI) changeShortcut(edit func(config.Shortcut) config.Shortcut) {
	u.mu.Lock()
	sc := shortcutFields(u.current)
	u.mu.Unlock()

	next := edit(sc)
	msg, err := u.app.UpdateGlobalShortcut(next.CtrlKey, next.ShiftKey, next.AltKey, next.Key)
	if err != nil {
		u.log.Error().Err(err).Interface("shortcut", next).Msg("Failed to change global shortcut")
		u.SetError(err.Error())
		return
	}
	u.log.Info().Interface("shortcut", next).Msg(msg)
}

func (u *UI) toggleEnabled() {
	u.mu.Lock()
	want := !u.enabled
	u.mu.Unlock()

	msg, err := u.app.SetGlobalShortcutEnabled(want)
	if err != nil {
		u.log.Error().Err(err).Bool("enabled", want).Msg("Failed to toggle global shortcut")
		u.SetError(err.Error())
		return
	}
	u.log.Info().Msg(msg)
}

func (u *UI) copyShortcut() {
	u.mu.Lock()
	current := u.current
	u.mu.Unlock()

	if current == nil {
		return
	}
	label := current.String()
	if err := clipboard.WriteAll(label); err != nil {
		u.log.Error().Err(err).Msg("Failed to copy shortcut")
		u.SetError("clipboard unavailable")
		return
	}
	u.log.Info().Str("shortcut", label).Msg("Copied shortcut to clipboard")
}

func (u *UI) openLogs() {
	if err := browser.OpenFile(logging.Path()); err != nil {
		u.log.Error().Err(err).Msg("Failed to open logs")
		u.SetError("cannot open logs")
	}
}

func (u *UI) showAbout() {
	u.log.Info().Str("version", u.version).Str("commit", u.commit).Msg("About")
	systray.SetTooltip(fmt.Sprintf("Sokki %s (%s)", u.version, u.commit))
}

func (u *UI) onExit() {
	if err := u.app.Shutdown(context.Background()); err != nil {
		u.log.Error().Err(err).Msg("Shutdown error")
	}
}

func (u *UI) refreshLocked() {
	u.mShortcut.SetTitle(shortcutTitle(u.current))
	setChecked(u.mEnabled, u.enabled)
	if u.current == nil {
		u.mEnabled.Disable()
		u.mCopy.Disable()
	} else {
		u.mEnabled.Enable()
		u.mCopy.Enable()
	}

	sc := shortcutFields(u.current)
	setChecked(u.mMods[shortcut.ModPrimary], u.current != nil && sc.CtrlKey)
	setChecked(u.mMods[shortcut.ModShift], u.current != nil && sc.ShiftKey)
	setChecked(u.mMods[shortcut.ModAlt], u.current != nil && sc.AltKey)
	for k, item := range u.mKeys {
		setChecked(item, u.current != nil && u.current.Key == k)
	}
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// shortcutTitle is the label of the read-only shortcut menu item.
func shortcutTitle(d *shortcut.Descriptor) string {
	if d == nil {
		return "Shortcut: none"
	}
	return "Shortcut: " + d.String()
}

// shortcutFields returns the raw fields of d, or the default shortcut's.
func shortcutFields(d *shortcut.Descriptor) config.Shortcut {
	if d == nil {
		return config.DefaultShortcut()
	}
	return d.Config()
}

func toggleModifier(sc config.Shortcut, m shortcut.Modifiers) config.Shortcut {
	switch m {
	case shortcut.ModPrimary:
		sc.CtrlKey = !sc.CtrlKey
	case shortcut.ModShift:
		sc.ShiftKey = !sc.ShiftKey
	case shortcut.ModAlt:
		sc.AltKey = !sc.AltKey
	}
	return sc
}

// modifierName labels a modifier the way Descriptor.String does.
func modifierName(m shortcut.Modifiers) string {
	return strings.TrimSuffix(shortcut.Descriptor{Mods: m, Key: 'X'}.String(), "+X")
}
