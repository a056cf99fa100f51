package gateway

import (
	"context"
	"errors"
)

// ErrSessionNotFound means the gateway has no checkout session with the
// given id. Transport failures and gateway outages are returned as-is,
// callers treat those as retryable.
var ErrSessionNotFound = errors.New("checkout session not found")

type PaymentGatewayWrapper interface {
	CreateCheckoutSession(ctx context.Context, params *CreateSessionParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
	// VerifyWebhook authenticates the raw request body against the signature
	// header and decodes the event. Verification happens on the exact bytes,
	// never on a re-serialized payload.
	VerifyWebhook(payload []byte, signatureHeader string) (*Event, error)
	GetReceiptURL(ctx context.Context, paymentReference string) (string, error)
}
