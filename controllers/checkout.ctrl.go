package controllers

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/vanaways/paylink/lib/responses"
	"github.com/vanaways/paylink/lib/service"
)

// CheckoutController : Create checkout session controller struct
type CheckoutController struct {
	svc *service.PaylinkService
}

func NewCheckoutController(svc *service.PaylinkService) *CheckoutController {
	return &CheckoutController{svc: svc}
}

type CreateCheckoutRequestBody struct {
	Hash        string  `json:"hash" validate:"required"`
	CashflowID  int64   `json:"cashflowId" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
}

type CreateCheckoutResponseBody struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CreateCheckout godoc
// @Summary      Create a checkout session
// @Description  Returns a hosted payment page URL for the given cashflow
// @Accept       json
// @Produce      json
// @Tags         Checkout
// @Param        checkout  body      CreateCheckoutRequestBody  True  "Create checkout"
// @Success      200       {object}  CreateCheckoutResponseBody
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      500       {object}  responses.ErrorResponse
// @Router       /api/checkout [post]
func (controller *CheckoutController) CreateCheckout(c echo.Context) error {
	var body CreateCheckoutRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load checkout request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid checkout request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	session, err := controller.svc.CreateCheckoutSession(c.Request().Context(), &service.CheckoutParams{
		Hash:        body.Hash,
		CashflowID:  body.CashflowID,
		Amount:      body.Amount,
		Description: body.Description,
	})
	if err != nil {
		c.Logger().Errorf("Error creating checkout session: cashflow_id:%v error: %v", body.CashflowID, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.CheckoutSessionError)
	}

	return c.JSON(http.StatusOK, &CreateCheckoutResponseBody{
		SessionID: session.ID,
		URL:       session.URL,
	})
}
