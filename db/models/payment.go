package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Payment records one applied gateway payment. The unique constraint on
// payment_reference is what makes reconciliation idempotent: the second of
// two racing apply attempts fails its insert and observes the first.
// For the API-backed store the initialized state doubles as a
// single-flight claim while the remote update is in flight.
type Payment struct {
	ID               int64        `json:"id" bun:",pk,autoincrement"`
	PaymentReference string       `json:"payment_reference" bun:",unique,notnull"`
	CashflowID       int64        `json:"cashflow_id" bun:",notnull"`
	CashflowHash     string       `json:"cashflow_hash" bun:",notnull"`
	Amount           int64        `json:"amount" bun:",notnull"`
	State            string       `json:"state" bun:",default:'initialized'"`
	ClaimToken       string       `json:"-" bun:",nullzero"`
	CreatedAt        time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt        bun.NullTime `json:"updated_at"`
}

func (p *Payment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		p.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Payment)(nil)
