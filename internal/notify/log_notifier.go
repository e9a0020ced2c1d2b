package notify

import (
	"context"
	"log/slog"

	"sosdesk/internal/domain"
)

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With(slog.String("component", "log_notifier"))}
}

func (n *LogNotifier) Send(_ context.Context, to domain.Recipient, p domain.NotificationPayload) error {
	n.logger.Info("notification",
		slog.String("kind", string(to.Kind)),
		slog.String("to", to.Name),
		slog.String("email", to.Email),
		slog.String("phone", to.Phone),
		slog.String("alert_id", p.AlertID.String()),
		slog.String("subject", p.Subject),
		slog.String("maps_url", p.MapsURL),
	)
	return nil
}
