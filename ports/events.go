package ports

import "context"

// EventPublisher publishes domain events to notify other systems.
type EventPublisher interface {
	PublishUserProvisioned(ctx context.Context, userID, walletAddress string) error
	PublishPaymentCompleted(ctx context.Context, paymentID, productID string) error
}
