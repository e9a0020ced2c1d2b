package notify

import (
	"context"

	"sosdesk/internal/domain"
)

//go:generate mockgen -source=notifier.go -destination=mocks/mock.go

// Notifier delivers one payload to one recipient. The only contract is
// accept and report success or failure.
type Notifier interface {
	Send(ctx context.Context, to domain.Recipient, payload domain.NotificationPayload) error
}
