package controllers

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/vanaways/paylink/cashflows"
	"github.com/vanaways/paylink/common"
	"github.com/vanaways/paylink/gateway"
	"github.com/vanaways/paylink/lib"
	"github.com/vanaways/paylink/lib/logging"
	"github.com/vanaways/paylink/lib/service"
)

type stubGateway struct {
	createdParams *gateway.CreateSessionParams
	createErr     error

	session    *gateway.CheckoutSession
	sessionErr error

	event     *gateway.Event
	verifyErr error

	receiptURL string
	receiptErr error
}

func (g *stubGateway) CreateCheckoutSession(ctx context.Context, params *gateway.CreateSessionParams) (*gateway.CheckoutSession, error) {
	g.createdParams = params
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.session, nil
}

func (g *stubGateway) GetCheckoutSession(ctx context.Context, id string) (*gateway.CheckoutSession, error) {
	if g.sessionErr != nil {
		return nil, g.sessionErr
	}
	return g.session, nil
}

func (g *stubGateway) VerifyWebhook(payload []byte, signatureHeader string) (*gateway.Event, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.event, nil
}

func (g *stubGateway) GetReceiptURL(ctx context.Context, paymentReference string) (string, error) {
	return g.receiptURL, g.receiptErr
}

type countingStore struct {
	cashflow *cashflows.Cashflow
	applyErr error

	lookups int
	applies int
}

func (s *countingStore) Lookup(ctx context.Context, hash string) (*cashflows.Cashflow, error) {
	s.lookups++
	if s.cashflow == nil || s.cashflow.Hash != hash {
		return nil, cashflows.ErrNotFound
	}
	cashflow := *s.cashflow
	return &cashflow, nil
}

func (s *countingStore) ApplyPayment(ctx context.Context, cashflow *cashflows.Cashflow, amount int64, paymentReference string) error {
	s.applies++
	return s.applyErr
}

func testService(store cashflows.Store, gatewayClient gateway.PaymentGatewayWrapper) *service.PaylinkService {
	return &service.PaylinkService{
		Config:        &service.Config{PublicUrl: "https://pay.example.com"},
		CashflowStore: store,
		GatewayClient: gatewayClient,
		Logger:        logging.Logger(""),
		PaymentPubSub: service.NewPubsub(),
	}
}

func testContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testCashflow() *cashflows.Cashflow {
	return &cashflows.Cashflow{
		ID:        1,
		Hash:      "abc123",
		NetAmount: 10000,
		TaxAmount: 2000,
	}
}

func paidSession() *gateway.CheckoutSession {
	return &gateway.CheckoutSession{
		ID:               "cs_test_123",
		Status:           common.SessionStatusPaid,
		AmountTotal:      12000,
		PaymentReference: "pi_123",
		Metadata: map[string]string{
			"cashflowId": "1",
			"hash":       "abc123",
			"amount":     "12000",
		},
	}
}
