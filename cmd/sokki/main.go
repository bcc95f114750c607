package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sokki-app/sokki/internal/app"
	"github.com/sokki-app/sokki/internal/config"
	"github.com/sokki-app/sokki/internal/hotkey"
	"github.com/sokki-app/sokki/internal/logging"
	"github.com/sokki-app/sokki/internal/tray"
	"github.com/sokki-app/sokki/internal/window"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	logLevel := flag.String("loglevel", "info", "log level (debug, info, warn, error)")
	dataDir := flag.String("datadir", "", "directory for shortcut.json and notes (default: per-user app data)")
	accel := flag.String("shortcut", "", "set and save the global shortcut, e.g. Ctrl+Shift+K")
	flag.Parse()

	log := logging.New(*logLevel)

	var override *config.Shortcut
	if *accel != "" {
		sc, err := app.ParseAccelerator(*accel)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid -shortcut")
		}
		override = &sc
	}

	dir := *dataDir
	if dir == "" {
		dir = config.DataDir()
	}
	log.Info().Str("version", Version).Str("datadir", dir).Msg("Sokki starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := hotkey.New(log.With().Str("component", "hotkey").Logger())
	defer provider.Close()

	// Create tray UI first (we'll pass it to app)
	trayUI := tray.New(nil, Version, Commit, log)

	application := app.New(app.Config{
		Provider:      provider,
		Store:         config.NewStore(dir),
		Window:        window.NewNotes(dir),
		Logger:        log,
		StatusUpdater: trayUI,
		Shortcut:      override,
	})

	// Set app reference in tray
	trayUI.SetApp(application)

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			log.Info().Msg("Shutting down...")
			trayUI.Quit()
		case <-ctx.Done():
		}
	}()

	// Start tray UI - MUST run on main thread. The shortcut is registered
	// once the event loop is up and released when it exits.
	if err := trayUI.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}
}
