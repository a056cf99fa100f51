package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/vanaways/paylink/common"
	"github.com/vanaways/paylink/gateway"
	"github.com/vanaways/paylink/lib/responses"
	"github.com/vanaways/paylink/lib/service"
)

// WebhookController : Payment gateway webhook controller struct
type WebhookController struct {
	svc *service.PaylinkService
}

func NewWebhookController(svc *service.PaylinkService) *WebhookController {
	return &WebhookController{svc: svc}
}

type WebhookResponseBody struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome,omitempty"`
}

// Webhook godoc
// @Summary      Receive payment gateway events
// @Description  Verifies the event signature and applies completed checkout sessions to their cashflow
// @Accept       json
// @Produce      json
// @Tags         Webhook
// @Success      200  {object}  WebhookResponseBody
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/webhook [post]
func (controller *WebhookController) Webhook(c echo.Context) error {
	// Signature verification needs the raw bytes, so no binding here.
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		c.Logger().Errorf("Failed to read webhook payload: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	event, err := controller.svc.GatewayClient.VerifyWebhook(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		c.Logger().Errorf("Webhook signature verification failed: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadSignatureError)
	}

	// Unhandled event types are acknowledged so the gateway stops
	// redelivering them.
	if event.Type != common.EventCheckoutSessionCompleted {
		c.Logger().Debugf("Ignoring webhook event type:%s", event.Type)
		return c.JSON(http.StatusOK, &WebhookResponseBody{Received: true})
	}

	session := event.Session
	hash := session.Metadata[common.MetadataKeyHash]
	amount := sessionAmount(session)
	if hash == "" || amount <= 0 || session.PaymentReference == "" {
		c.Logger().Errorf("Webhook session is missing metadata session_id:%s hash:%s amount:%d", session.ID, hash, amount)
		return c.JSON(http.StatusBadRequest, responses.MissingMetadataError)
	}

	result, err := controller.svc.Reconcile(c.Request().Context(), session.PaymentReference, hash, amount)
	if err != nil {
		c.Logger().Errorf("Webhook reconciliation failed session_id:%s error: %v", session.ID, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.TransientServerError)
	}
	if result.Outcome == service.ReconcileCashflowNotFound {
		return c.JSON(http.StatusNotFound, responses.CashflowNotFoundError)
	}

	return c.JSON(http.StatusOK, &WebhookResponseBody{
		Received: true,
		Outcome:  result.Outcome.String(),
	})
}

// sessionAmount prefers the session total and falls back to the amount the
// session was created with.
func sessionAmount(session *gateway.CheckoutSession) int64 {
	if session.AmountTotal > 0 {
		return session.AmountTotal
	}
	amount, err := strconv.ParseInt(session.Metadata[common.MetadataKeyAmount], 10, 64)
	if err != nil {
		return 0
	}
	return amount
}
