package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanaways/paylink/cashflows"
	"github.com/vanaways/paylink/common"
	"github.com/vanaways/paylink/db/models"
)

type ReconcileOutcome int

const (
	ReconcileApplied ReconcileOutcome = iota
	ReconcileAlreadyApplied
	ReconcileCashflowNotFound
)

func (o ReconcileOutcome) String() string {
	switch o {
	case ReconcileApplied:
		return "applied"
	case ReconcileAlreadyApplied:
		return "already_applied"
	case ReconcileCashflowNotFound:
		return "cashflow_not_found"
	}
	return "unknown"
}

type ReconcileResult struct {
	Outcome          ReconcileOutcome
	Cashflow         *cashflows.Cashflow
	PaymentReference string
	Amount           int64
}

// Reconcile applies one confirmed gateway payment to its cashflow at most
// once. Both trigger paths (webhook delivery and browser verify) call this
// same routine: the store's idempotence contract on the payment reference
// decides which of two racing attempts performs the mutation, the other
// observes AlreadyApplied. Errors returned here are transient and safe to
// retry; duplicate deliveries resolve to AlreadyApplied, never to a second
// application.
func (svc *PaylinkService) Reconcile(ctx context.Context, paymentReference, hash string, amount int64) (*ReconcileResult, error) {
	if paymentReference == "" || hash == "" || amount <= 0 {
		return nil, fmt.Errorf("invalid reconciliation request payment_reference:%s hash:%s amount:%d", paymentReference, hash, amount)
	}

	cashflow, err := svc.CashflowStore.Lookup(ctx, hash)
	if errors.Is(err, cashflows.ErrNotFound) {
		svc.Logger.Infof("Cashflow not found hash:%s payment_reference:%s", hash, paymentReference)
		return &ReconcileResult{Outcome: ReconcileCashflowNotFound, PaymentReference: paymentReference, Amount: amount}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cashflow lookup failed: %w", err)
	}

	result := &ReconcileResult{
		Cashflow:         cashflow,
		PaymentReference: paymentReference,
		Amount:           amount,
	}

	// A fully paid cashflow takes no further payments. The per-reference
	// guard below is what closes the race window, this check only stops a
	// second, distinct payment from over-paying the record.
	if cashflow.FullyPaid() {
		svc.Logger.Infof("Cashflow already fully paid cashflow_id:%d payment_reference:%s", cashflow.ID, paymentReference)
		result.Outcome = ReconcileAlreadyApplied
		return result, nil
	}

	err = svc.CashflowStore.ApplyPayment(ctx, cashflow, amount, paymentReference)
	switch {
	case errors.Is(err, cashflows.ErrAlreadyApplied):
		svc.Logger.Infof("Payment already applied cashflow_id:%d payment_reference:%s", cashflow.ID, paymentReference)
		result.Outcome = ReconcileAlreadyApplied
		return result, nil
	case errors.Is(err, cashflows.ErrApplyInFlight):
		return nil, fmt.Errorf("payment apply in flight payment_reference:%s: %w", paymentReference, err)
	case err != nil:
		return nil, fmt.Errorf("could not apply payment: %w", err)
	}

	cashflow.PaidAmount += amount
	result.Outcome = ReconcileApplied
	svc.Logger.Infof("Applied payment cashflow_id:%d payment_reference:%s amount:%d fully_paid:%v",
		cashflow.ID, paymentReference, amount, cashflow.FullyPaid())

	svc.PaymentPubSub.Publish(common.PaymentStateSettled, models.Payment{
		PaymentReference: paymentReference,
		CashflowID:       cashflow.ID,
		CashflowHash:     cashflow.Hash,
		Amount:           amount,
		State:            common.PaymentStateSettled,
	})

	return result, nil
}
