package events

import (
	"context"

	"github.com/pasar-labs/pasar/ports"
)

// NopPublisher discards all events. Used when no broker is configured.
type NopPublisher struct{}

func NewNopPublisher() ports.EventPublisher {
	return NopPublisher{}
}

func (NopPublisher) PublishUserProvisioned(ctx context.Context, userID, walletAddress string) error {
	return nil
}

func (NopPublisher) PublishPaymentCompleted(ctx context.Context, paymentID, productID string) error {
	return nil
}
