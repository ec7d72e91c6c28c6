package log

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// New builds the application logger. Development gets colorized tint output
// at debug level; everything else gets plain text at info level.
func New(appEnv string) *slog.Logger {
	if appEnv == "development" {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
