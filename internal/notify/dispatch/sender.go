package dispatch

import (
	"context"

	"github.com/pawsuite/notify/internal/core/domain"
)

// Sender is the external send capability. Implementations deliver one
// notification through the provider and are expected to enforce their own
// timeout; the dispatcher only classifies the outcome.
type Sender interface {
	Send(ctx context.Context, req domain.NotificationRequest) (domain.NotificationResult, error)
}
