package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vanaways/paylink/gateway"
	"github.com/vanaways/paylink/lib/money"
)

type CheckoutParams struct {
	Hash        string
	CashflowID  int64
	Amount      float64
	Description string
}

// CreateCheckoutSession creates a hosted checkout session at the gateway.
// The session metadata carries {cashflowId, hash, amount}; reconciliation
// depends on it to locate the cashflow, so it is always attached here.
// The amount is taken at face value, verification happens at reconciliation.
func (svc *PaylinkService) CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*gateway.CheckoutSession, error) {
	baseUrl := strings.TrimSuffix(svc.Config.PublicUrl, "/")
	session, err := svc.GatewayClient.CreateCheckoutSession(ctx, &gateway.CreateSessionParams{
		Hash:        params.Hash,
		CashflowID:  params.CashflowID,
		Amount:      money.ToMinorUnits(params.Amount),
		Description: params.Description,
		SuccessURL:  fmt.Sprintf("%s/success?session_id={CHECKOUT_SESSION_ID}&hash=%s", baseUrl, params.Hash),
		CancelURL:   fmt.Sprintf("%s/pay/%s?cancelled=true", baseUrl, params.Hash),
	})
	if err != nil {
		return nil, err
	}
	svc.Logger.Infof("Created checkout session session_id:%s cashflow_id:%d amount:%.2f", session.ID, params.CashflowID, params.Amount)
	return session, nil
}
