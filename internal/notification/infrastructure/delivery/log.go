package delivery

import (
	"context"
	"log/slog"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/notification/application"
)

// LogSender writes notifications to the service log. It is the only delivery
// channel today.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, n application.Notification) error {
	s.log.Info("notification",
		slog.String("recipient_id", n.RecipientID),
		slog.String("title", n.Title),
		slog.String("message", n.Message),
	)
	return nil
}
