package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
	"github.com/vanaways/paylink/common"
)

// StripeClient wraps the Stripe API behind the PaymentGatewayWrapper
// interface. It is constructed once at startup and injected, there is no
// process-wide singleton.
type StripeClient struct {
	api           *client.API
	webhookSecret string
	currency      string
}

func NewStripeClient(c *Config) *StripeClient {
	api := &client.API{}
	// every gateway call is bounded by the configured timeout
	api.Init(c.StripeSecretKey, stripe.NewBackends(&http.Client{
		Timeout: time.Duration(c.Timeout) * time.Second,
	}))
	return &StripeClient{
		api:           api,
		webhookSecret: c.StripeWebhookSecret,
		currency:      c.Currency,
	}
}

func (sc *StripeClient) CreateCheckoutSession(ctx context.Context, params *CreateSessionParams) (*CheckoutSession, error) {
	name := params.Description
	if name == "" {
		name = "Payment"
	}
	sessionParams := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(sc.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(name),
						Description: stripe.String(fmt.Sprintf("Cashflow ID: %d", params.CashflowID)),
					},
					UnitAmount: stripe.Int64(params.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
	}
	sessionParams.AddMetadata(common.MetadataKeyCashflowID, strconv.FormatInt(params.CashflowID, 10))
	sessionParams.AddMetadata(common.MetadataKeyHash, params.Hash)
	sessionParams.AddMetadata(common.MetadataKeyAmount, strconv.FormatInt(params.Amount, 10))

	session, err := sc.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, err
	}
	return mapSession(session), nil
}

func (sc *StripeClient) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	session, err := sc.api.CheckoutSessions.Get(id, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		// only a definite 404 maps to not-found, timeouts and outages
		// stay retryable
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return mapSession(session), nil
}

func (sc *StripeClient) VerifyWebhook(payload []byte, signatureHeader string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, sc.webhookSecret)
	if err != nil {
		return nil, err
	}
	result := &Event{Type: string(event.Type)}
	if result.Type == common.EventCheckoutSessionCompleted {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, err
		}
		result.Session = mapSession(&session)
	}
	return result, nil
}

func (sc *StripeClient) GetReceiptURL(ctx context.Context, paymentReference string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}
	params.AddExpand("latest_charge")
	intent, err := sc.api.PaymentIntents.Get(paymentReference, params)
	if err != nil {
		return "", err
	}
	if intent.LatestCharge == nil {
		return "", nil
	}
	return intent.LatestCharge.ReceiptURL, nil
}

func mapSession(session *stripe.CheckoutSession) *CheckoutSession {
	result := &CheckoutSession{
		ID:          session.ID,
		URL:         session.URL,
		Status:      mapPaymentStatus(session.PaymentStatus),
		AmountTotal: session.AmountTotal,
		Metadata:    session.Metadata,
	}
	if session.PaymentIntent != nil {
		result.PaymentReference = session.PaymentIntent.ID
	}
	return result
}

func mapPaymentStatus(status stripe.CheckoutSessionPaymentStatus) string {
	switch status {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return common.SessionStatusPaid
	case stripe.CheckoutSessionPaymentStatusUnpaid:
		return common.SessionStatusPending
	default:
		return string(status)
	}
}

var _ PaymentGatewayWrapper = (*StripeClient)(nil)
