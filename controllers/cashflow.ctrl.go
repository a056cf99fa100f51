package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vanaways/paylink/cashflows"
	"github.com/vanaways/paylink/lib/money"
	"github.com/vanaways/paylink/lib/responses"
	"github.com/vanaways/paylink/lib/service"
)

// CashflowController : Cashflow lookup controller struct
type CashflowController struct {
	svc *service.PaylinkService
}

func NewCashflowController(svc *service.PaylinkService) *CashflowController {
	return &CashflowController{svc: svc}
}

type CashflowResponseBody struct {
	ID                int64   `json:"id"`
	Hash              string  `json:"hash"`
	Description       string  `json:"description,omitempty"`
	Reference         string  `json:"reference,omitempty"`
	NetAmount         float64 `json:"net_amount"`
	TaxAmount         float64 `json:"tax_amount"`
	TotalAmount       float64 `json:"total_amount"`
	PaidAmount        float64 `json:"paid_amount"`
	OutstandingAmount float64 `json:"outstanding_amount"`
	FullyPaid         bool    `json:"fully_paid"`
}

// GetCashflow godoc
// @Summary      Retrieve a cashflow
// @Description  Returns the cashflow behind a payment link so the page can render amounts
// @Produce      json
// @Tags         Cashflow
// @Param        hash  path      string  true  "Cashflow hash"
// @Success      200   {object}  CashflowResponseBody
// @Failure      404   {object}  responses.ErrorResponse
// @Failure      500   {object}  responses.ErrorResponse
// @Router       /api/cashflows/{hash} [get]
func (controller *CashflowController) GetCashflow(c echo.Context) error {
	cashflow, err := controller.svc.CashflowStore.Lookup(c.Request().Context(), c.Param("hash"))
	if errors.Is(err, cashflows.ErrNotFound) {
		return c.JSON(http.StatusNotFound, responses.CashflowNotFoundError)
	}
	if err != nil {
		c.Logger().Errorf("Cashflow lookup failed hash:%s error: %v", c.Param("hash"), err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, &CashflowResponseBody{
		ID:                cashflow.ID,
		Hash:              cashflow.Hash,
		Description:       cashflow.Description,
		Reference:         cashflow.Reference,
		NetAmount:         money.FromMinorUnits(cashflow.NetAmount),
		TaxAmount:         money.FromMinorUnits(cashflow.TaxAmount),
		TotalAmount:       money.FromMinorUnits(cashflow.TotalAmount()),
		PaidAmount:        money.FromMinorUnits(cashflow.PaidAmount),
		OutstandingAmount: money.FromMinorUnits(cashflow.OutstandingAmount()),
		FullyPaid:         cashflow.FullyPaid(),
	})
}
