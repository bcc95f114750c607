package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/sokki-app/sokki/internal/paths"
)

// New creates a zerolog logger writing to the console and to the log file.
// An unknown level falls back to info. If the log file cannot be opened
// the logger writes to the console only.
func New(level string) zerolog.Logger {
	return NewAt(Path(), level)
}

// NewAt is New with an explicit log file path.
func NewAt(logPath, level string) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	var out io.Writer = console
	fileErr := os.MkdirAll(filepath.Dir(logPath), 0755)
	if fileErr == nil {
		var logFile *os.File
		logFile, fileErr = os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if fileErr == nil {
			// Multi-writer: console + file
			out = zerolog.MultiLevelWriter(console, logFile)
		}
	}

	logger := zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
	if fileErr != nil {
		logger.Warn().Err(fileErr).Str("path", logPath).Msg("Logging to console only")
	}
	return logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Path returns the platform-specific log file path.
func Path() string {
	return filepath.Join(paths.Dir(paths.Logs), "sokki.log")
}
