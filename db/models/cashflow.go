package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Cashflow is an outstanding billable amount owed, publicly addressable by
// an opaque hash. All amounts are stored in minor units (pence).
type Cashflow struct {
	ID               int64        `json:"id" bun:",pk,autoincrement"`
	Hash             string       `json:"hash" bun:",unique,notnull"`
	Description      string       `json:"description" bun:",nullzero"`
	Reference        string       `json:"reference,omitempty" bun:",nullzero"`
	NetAmount        int64        `json:"net_amount" bun:",notnull"`
	TaxAmount        int64        `json:"tax_amount" bun:",nullzero"`
	PaidAmount       int64        `json:"paid_amount"`
	FullyPaid        bool         `json:"fully_paid"`
	PaymentReference string       `json:"payment_reference,omitempty" bun:",nullzero"`
	PaidDate         bun.NullTime `json:"paid_date"`
	CreatedAt        time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt        bun.NullTime `json:"updated_at"`
}

func (c *Cashflow) TotalAmount() int64 {
	return c.NetAmount + c.TaxAmount
}

func (c *Cashflow) OutstandingAmount() int64 {
	return c.TotalAmount() - c.PaidAmount
}

func (c *Cashflow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		c.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Cashflow)(nil)
