// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/flemzord/tgrelay/internal/config"
)

// New builds a text or JSON logger at the configured level writing to w.
// Every secret is redacted from messages and attributes, along with
// anything shaped like a bot token.
func New(w io.Writer, cfg config.LoggingConfig, secrets ...string) (*slog.Logger, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("logging: invalid level %q: %w", cfg.Level, err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var inner slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		inner = slog.NewTextHandler(w, opts)
	case "json":
		inner = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("logging: invalid format %q", cfg.Format)
	}

	redactor := NewRedactor()
	for _, s := range secrets {
		redactor.AddLiteral(s)
	}
	return slog.New(NewRedactingHandler(inner, redactor)), nil
}
