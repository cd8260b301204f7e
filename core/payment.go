package core

import "github.com/shopspring/decimal"

// PaymentStatus is the lifecycle state of a listing payment.
type PaymentStatus string

const (
	// PaymentPending means the payment was initiated but not yet confirmed.
	PaymentPending PaymentStatus = "pending"

	// PaymentFailed means a previous attempt failed. Failed rows are
	// reusable: a later initiation returns them as-is instead of
	// creating a replacement.
	PaymentFailed PaymentStatus = "failed"

	// PaymentCompleted is terminal and exclusive per product.
	PaymentCompleted PaymentStatus = "completed"
)

// ListingPayment tracks the fee owed and paid for activating a product
// listing. At most one row is tracked per product at a time.
type ListingPayment struct {
	ID        string
	ProductID string
	SellerID  string
	Amount    decimal.Decimal
	Currency  *string // nil until the payment network reports one
	Status    PaymentStatus
}

// PaymentFee is reference data mapping a payment category to the amount
// charged for it.
type PaymentFee struct {
	PaymentType string
	Amount      decimal.Decimal
}

// ProductStatus is the listing state of a product. Only the transition to
// active on payment completion is owned by this service.
type ProductStatus string

// ProductActive marks a product listing as live.
const ProductActive ProductStatus = "active"

// ConfirmationStatus is the result reported by the payment network for a
// payment reference.
type ConfirmationStatus string

const (
	ConfirmationCompleted ConfirmationStatus = "completed"
	ConfirmationFailed    ConfirmationStatus = "failed"
)
