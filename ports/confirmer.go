package ports

import (
	"context"

	"github.com/pasar-labs/pasar/core"
)

// PaymentConfirmer reports whether the payment network has settled a
// payment reference.
type PaymentConfirmer interface {
	Confirm(ctx context.Context, reference string) (core.ConfirmationStatus, error)
}
