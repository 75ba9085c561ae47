// Package telemetry defines the fire-and-forget sink the loader publishes
// composition metadata to. Publishing never blocks or fails a load: the
// loader invokes sinks from a goroutine and swallows their errors.
package telemetry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// Event is one metadata record. Public carries counts, booleans, and hashed
// identifiers safe for aggregate analytics; Sensitive carries plain
// identifiers and must only reach sinks cleared for them.
type Event struct {
	Name      string
	Public    map[string]any
	Sensitive map[string]any
}

// Sink receives telemetry events.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// HashString returns the hex-encoded SHA-256 of s, used to pseudonymize
// names and paths in public records.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Nop discards all events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// LogSink writes events to the debug log. Useful during development and as
// the default sink when no reporting backend is configured.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Publish(ctx context.Context, event Event) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, "telemetry event",
		"name", event.Name,
		"public", event.Public,
	)
	return nil
}
