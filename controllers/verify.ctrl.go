package controllers

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/vanaways/paylink/common"
	"github.com/vanaways/paylink/gateway"
	"github.com/vanaways/paylink/lib/money"
	"github.com/vanaways/paylink/lib/responses"
	"github.com/vanaways/paylink/lib/service"
)

// VerifyController : Browser-side payment verification controller struct
type VerifyController struct {
	svc *service.PaylinkService
}

func NewVerifyController(svc *service.PaylinkService) *VerifyController {
	return &VerifyController{svc: svc}
}

type VerifyPaymentRequestBody struct {
	SessionID string `json:"session_id" validate:"required"`
	Hash      string `json:"hash" validate:"required"`
}

type VerifyPaymentResponseBody struct {
	Success          bool    `json:"success"`
	Outcome          string  `json:"outcome"`
	Amount           float64 `json:"amount"`
	PaymentReference string  `json:"payment_reference"`
	ReceiptURL       string  `json:"receipt_url,omitempty"`
}

// VerifyPayment godoc
// @Summary      Verify a checkout session after redirect
// @Description  Confirms the session is paid at the gateway and applies the payment to its cashflow
// @Accept       json
// @Produce      json
// @Tags         Verify
// @Param        verify  body      VerifyPaymentRequestBody  True  "Verify payment"
// @Success      200     {object}  VerifyPaymentResponseBody
// @Failure      400     {object}  responses.ErrorResponse
// @Failure      404     {object}  responses.ErrorResponse
// @Failure      500     {object}  responses.ErrorResponse
// @Router       /api/verify-payment [post]
func (controller *VerifyController) VerifyPayment(c echo.Context) error {
	var body VerifyPaymentRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load verify request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid verify request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	session, err := controller.svc.GatewayClient.GetCheckoutSession(c.Request().Context(), body.SessionID)
	if err != nil {
		if errors.Is(err, gateway.ErrSessionNotFound) {
			c.Logger().Errorf("Checkout session does not exist session_id:%s", body.SessionID)
			return c.JSON(http.StatusNotFound, responses.SessionNotFoundError)
		}
		// a gateway outage is retryable, the browser polls this endpoint
		c.Logger().Errorf("Could not fetch checkout session session_id:%s error: %v", body.SessionID, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.TransientServerError)
	}

	if session.Status != common.SessionStatusPaid {
		c.Logger().Infof("Session not paid yet session_id:%s status:%s", body.SessionID, session.Status)
		return c.JSON(http.StatusBadRequest, responses.PaymentNotCompleted(session.Status))
	}

	// The cashflow identity and amount come from the session's own
	// metadata, the client-supplied hash only has to agree with it.
	hash := session.Metadata[common.MetadataKeyHash]
	amount := sessionAmount(session)
	if hash == "" || amount <= 0 || session.PaymentReference == "" {
		c.Logger().Errorf("Session is missing metadata session_id:%s hash:%s amount:%d", body.SessionID, hash, amount)
		return c.JSON(http.StatusBadRequest, responses.MissingMetadataError)
	}
	if hash != body.Hash {
		c.Logger().Errorf("Session hash mismatch session_id:%s got:%s want:%s", body.SessionID, body.Hash, hash)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	result, err := controller.svc.Reconcile(c.Request().Context(), session.PaymentReference, hash, amount)
	if err != nil {
		c.Logger().Errorf("Verify reconciliation failed session_id:%s error: %v", body.SessionID, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.TransientServerError)
	}
	if result.Outcome == service.ReconcileCashflowNotFound {
		return c.JSON(http.StatusNotFound, responses.CashflowNotFoundError)
	}

	responseBody := VerifyPaymentResponseBody{
		Success:          true,
		Outcome:          result.Outcome.String(),
		Amount:           money.FromMinorUnits(amount),
		PaymentReference: session.PaymentReference,
	}

	// The receipt is a nicety, verification does not fail without it.
	receiptUrl, err := controller.svc.GatewayClient.GetReceiptURL(c.Request().Context(), session.PaymentReference)
	if err != nil {
		c.Logger().Warnf("Could not fetch receipt URL payment_reference:%s error: %v", session.PaymentReference, err)
	} else {
		responseBody.ReceiptURL = receiptUrl
	}

	return c.JSON(http.StatusOK, &responseBody)
}
