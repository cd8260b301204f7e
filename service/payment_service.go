package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pasar-labs/pasar/core"
	"github.com/pasar-labs/pasar/ports"
)

// PaymentService manages the listing-payment lifecycle: deciding whether an
// initiation creates, reuses, or rejects a payment, and finalizing verified
// payments together with their product.
type PaymentService struct {
	payments  ports.PaymentRepository
	fees      ports.FeeRepository
	products  ports.ProductRepository
	confirmer ports.PaymentConfirmer
	eventPub  ports.EventPublisher
	log       zerolog.Logger
}

// NewPaymentService creates a new payment lifecycle service.
func NewPaymentService(
	payments ports.PaymentRepository,
	fees ports.FeeRepository,
	products ports.ProductRepository,
	confirmer ports.PaymentConfirmer,
	eventPub ports.EventPublisher,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		fees:      fees,
		products:  products,
		confirmer: confirmer,
		eventPub:  eventPub,
		log:       log,
	}
}

// PaymentIntent is the caller-facing result of an initiation: the payment
// to settle and the amount owed.
type PaymentIntent struct {
	PaymentID string
	Amount    decimal.Decimal
}

// InitiatePayment applies the lifecycle decision for productID: no tracked
// payment creates a pending row priced from the fee schedule; a pending or
// failed row is returned unchanged; a completed row rejects the attempt.
func (s *PaymentService) InitiatePayment(ctx context.Context, productID, sellerID, paymentType string) (PaymentIntent, error) {
	existing, err := s.payments.GetByProduct(ctx, productID)
	switch {
	case err == nil:
		return s.reuseExisting(existing)
	case errors.Is(err, core.ErrNotFound):
		// First attempt for this product.
	default:
		return PaymentIntent{}, fmt.Errorf("%w: %v", core.ErrPaymentInitiation, err)
	}

	fee, err := s.fees.GetByType(ctx, paymentType)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return PaymentIntent{}, core.ErrInvalidPaymentType
		}
		return PaymentIntent{}, fmt.Errorf("%w: %v", core.ErrPaymentInitiation, err)
	}
	if !fee.Amount.IsPositive() {
		return PaymentIntent{}, core.ErrInvalidPaymentType
	}

	payment := core.ListingPayment{
		ID:        uuid.New().String(),
		ProductID: productID,
		SellerID:  sellerID,
		Amount:    fee.Amount,
		Currency:  nil,
		Status:    core.PaymentPending,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		if errors.Is(err, core.ErrConflict) {
			// A concurrent initiation inserted first; its row wins and
			// the decision table applies to it.
			winner, gerr := s.payments.GetByProduct(ctx, productID)
			if gerr != nil {
				return PaymentIntent{}, fmt.Errorf("%w: %v", core.ErrPaymentInitiation, gerr)
			}
			return s.reuseExisting(winner)
		}
		return PaymentIntent{}, fmt.Errorf("%w: %v", core.ErrPaymentInitiation, err)
	}

	return PaymentIntent{PaymentID: payment.ID, Amount: payment.Amount}, nil
}

// reuseExisting resolves an initiation against the payment already tracked
// for the product. Completed is terminal and exclusive; pending and failed
// rows are handed back as-is so the caller can retry settlement.
func (s *PaymentService) reuseExisting(payment core.ListingPayment) (PaymentIntent, error) {
	if payment.Status == core.PaymentCompleted {
		return PaymentIntent{}, core.ErrPaymentCompleted
	}
	return PaymentIntent{PaymentID: payment.ID, Amount: payment.Amount}, nil
}

// VerifyPayment checks the payment network's confirmation for reference,
// marks the payment completed, and activates its product. The two writes
// are not atomic: a payment marked completed whose product update fails is
// surfaced as ErrProductStatusUpdate and reconciled out of band.
func (s *PaymentService) VerifyPayment(ctx context.Context, reference string) error {
	payment, err := s.payments.GetByID(ctx, reference)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrInvalidPaymentReference
		}
		return fmt.Errorf("payment lookup: %w", err)
	}

	status, err := s.confirmer.Confirm(ctx, reference)
	if err != nil {
		return fmt.Errorf("payment confirmation: %w", err)
	}
	if status != core.ConfirmationCompleted {
		return core.ErrPaymentNotConfirmed
	}

	if err := s.payments.UpdateStatus(ctx, payment.ID, core.PaymentCompleted); err != nil {
		return fmt.Errorf("%w: %v", core.ErrPaymentStatusUpdate, err)
	}

	if err := s.products.UpdateStatus(ctx, payment.ProductID, core.ProductActive); err != nil {
		s.log.Error().
			Str("payment_id", payment.ID).
			Str("product_id", payment.ProductID).
			Err(err).
			Msg("payment completed but product activation failed")
		return fmt.Errorf("%w: %v", core.ErrProductStatusUpdate, err)
	}

	if err := s.eventPub.PublishPaymentCompleted(ctx, payment.ID, payment.ProductID); err != nil {
		// Both rows are already settled; a lost event is not a failure
		// of the verification itself.
		s.log.Warn().Err(err).Msg("failed to publish payment completed event")
	}

	return nil
}
