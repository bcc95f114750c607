// Package hotkey registers global shortcuts with the operating system.
//
// macOS and Windows go through golang.design/x/hotkey (Carbon, Win32). On
// macOS registration needs a running Cocoa event loop, which the tray's main
// loop provides.
//
// Linux reads key events from evdev (/dev/input) instead. That works under
// X11 and Wayland alike and needs the user to be in the 'input' group. A
// session without readable keyboards gets a Register error, never a crash.
package hotkey
