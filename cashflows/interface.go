package cashflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

var (
	// ErrNotFound means no cashflow matches the given hash.
	ErrNotFound = errors.New("cashflow not found")
	// ErrAlreadyApplied means this payment reference has been applied
	// before. Duplicate deliveries are expected and benign.
	ErrAlreadyApplied = errors.New("payment already applied")
	// ErrApplyInFlight means another attempt holds the claim for this
	// payment reference right now. Safe to retry.
	ErrApplyInFlight = errors.New("payment apply in flight")
)

// Store is the single arbiter of cashflow mutation. Both trigger paths
// (webhook and verify) funnel into ApplyPayment through the reconciliation
// engine; nothing else writes paid amounts.
type Store interface {
	// Lookup resolves a cashflow by its opaque hash, ErrNotFound if absent.
	Lookup(ctx context.Context, hash string) (*Cashflow, error)
	// ApplyPayment applies amount (minor units) for paymentReference exactly
	// once: the paid amount is incremented and the fully-paid flag recomputed
	// together with the consumed-marker write, never one without the other.
	// Returns ErrAlreadyApplied when the reference was applied before and
	// ErrApplyInFlight when a concurrent attempt holds the claim.
	ApplyPayment(ctx context.Context, cashflow *Cashflow, amount int64, paymentReference string) error
}

func InitStore(c *Config, dbConn *bun.DB, logger *lecho.Logger) (Store, error) {
	switch c.StoreKind {
	case StoreKindDatabase:
		return NewDatabaseStore(dbConn), nil
	case StoreKindAPI:
		return NewAPIStore(c, dbConn, logger), nil
	default:
		return nil, fmt.Errorf("Did not recognize cashflow store kind %s", c.StoreKind)
	}
}
