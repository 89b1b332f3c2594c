package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/modela/identity-gateway/internal/core/domain"
)

// LogSink writes audit events as structured log lines.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "audit").Logger()}
}

func (s *LogSink) Write(_ context.Context, e domain.AuditEvent) error {
	ev := s.log.Info()
	if !e.Success {
		ev = s.log.Warn()
	}
	ev.Str("type", e.Type).
		Str("client_key", e.ClientKey).
		Bool("success", e.Success).
		Time("at", e.Timestamp)
	if e.UserID != "" {
		ev.Str("user_id", e.UserID)
	}
	if e.Email != "" {
		ev.Str("email", e.Email)
	}
	if e.Error != "" {
		ev.Str("error", e.Error)
	}
	ev.Msg("audit event")
	return nil
}
