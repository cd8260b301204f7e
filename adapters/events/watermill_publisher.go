package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/pasar-labs/pasar/ports"
)

const (
	TopicUserProvisioned  = "pasar.user.provisioned"
	TopicPaymentCompleted = "pasar.payment.completed"
)

// UserProvisionedEvent announces a first-time sign-in that created a user.
type UserProvisionedEvent struct {
	UserID        string `json:"user_id"`
	WalletAddress string `json:"wallet_address"`
}

// PaymentCompletedEvent announces a listing payment that was verified and
// whose product was activated.
type PaymentCompletedEvent struct {
	PaymentID string `json:"payment_id"`
	ProductID string `json:"product_id"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
}

func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
	}
}

func (p *WatermillPublisher) PublishUserProvisioned(ctx context.Context, userID, walletAddress string) error {
	return p.publish(TopicUserProvisioned, userID, UserProvisionedEvent{
		UserID:        userID,
		WalletAddress: walletAddress,
	})
}

func (p *WatermillPublisher) PublishPaymentCompleted(ctx context.Context, paymentID, productID string) error {
	return p.publish(TopicPaymentCompleted, paymentID, PaymentCompletedEvent{
		PaymentID: paymentID,
		ProductID: productID,
	})
}

func (p *WatermillPublisher) publish(topic, id string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(id, payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
