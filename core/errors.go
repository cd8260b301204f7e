package core

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	// A missing row is a normal branch for callers, not a failure.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned by repositories when an insert lost to a
	// concurrent writer on a unique key. Callers treat it as "someone
	// else already created it" and re-read.
	ErrConflict = errors.New("record already exists")

	ErrInvalidNonce   = errors.New("invalid nonce")
	ErrInvalidAddress = errors.New("invalid wallet address")

	ErrUserProvisioning   = errors.New("failed to provision identity user")
	ErrProfilePersistence = errors.New("failed to persist user profile")
	ErrTokenIssuance      = errors.New("failed to issue login token")
	ErrTokenVerification  = errors.New("failed to verify login token")
	ErrSessionIncomplete  = errors.New("session is missing an access token")

	ErrPaymentCompleted        = errors.New("payment already completed for this product")
	ErrInvalidPaymentType      = errors.New("invalid payment type")
	ErrPaymentInitiation       = errors.New("failed to initiate payment")
	ErrInvalidPaymentReference = errors.New("invalid payment reference")
	ErrPaymentNotConfirmed     = errors.New("payment not confirmed")
	ErrPaymentStatusUpdate     = errors.New("failed to update payment status")

	// ErrProductStatusUpdate means the payment row was already marked
	// completed but the product activation write failed. The pair is
	// inconsistent until reconciled out of band.
	ErrProductStatusUpdate = errors.New("payment completed but product activation failed")
)
