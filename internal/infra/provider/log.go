package provider

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pawsuite/notify/internal/core/domain"
)

// LogSender is the dev-mode send capability: it logs the request and
// reports success without calling any provider.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log}
}

func (s *LogSender) Send(
	ctx context.Context,
	req domain.NotificationRequest,
) (domain.NotificationResult, error) {
	s.log.Info("would send notification",
		"event", req.Type,
		"channel", req.Channel,
		"recipient", req.Recipient,
	)
	return domain.NotificationResult{
		Success:   true,
		MessageID: uuid.NewString(),
		LogID:     uuid.NewString(),
	}, nil
}
