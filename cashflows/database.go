package cashflows

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/vanaways/paylink/common"
	"github.com/vanaways/paylink/db/models"
)

// DatabaseStore keeps cashflows in our own Postgres. Idempotence comes from
// the unique constraint on payments.payment_reference: the losing side of a
// race fails its insert inside the transaction and nothing else of its
// attempt survives.
type DatabaseStore struct {
	db *bun.DB
}

func NewDatabaseStore(db *bun.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (store *DatabaseStore) Lookup(ctx context.Context, hash string) (*Cashflow, error) {
	var cashflow models.Cashflow
	err := store.db.NewSelect().Model(&cashflow).Where("hash = ?", hash).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Cashflow{
		ID:          cashflow.ID,
		Hash:        cashflow.Hash,
		Description: cashflow.Description,
		Reference:   cashflow.Reference,
		NetAmount:   cashflow.NetAmount,
		TaxAmount:   cashflow.TaxAmount,
		PaidAmount:  cashflow.PaidAmount,
	}, nil
}

func (store *DatabaseStore) ApplyPayment(ctx context.Context, cashflow *Cashflow, amount int64, paymentReference string) error {
	err := store.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		payment := models.Payment{
			PaymentReference: paymentReference,
			CashflowID:       cashflow.ID,
			CashflowHash:     cashflow.Hash,
			Amount:           amount,
			State:            common.PaymentStateSettled,
		}
		if _, err := tx.NewInsert().Model(&payment).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyApplied
			}
			return err
		}

		// Increment and flag recompute in one statement so they are never
		// observable apart from the payment row inserted above.
		_, err := tx.NewUpdate().Model((*models.Cashflow)(nil)).
			Set("paid_amount = paid_amount + ?", amount).
			Set("fully_paid = (paid_amount + ?) >= (net_amount + COALESCE(tax_amount, 0))", amount).
			Set("payment_reference = ?", paymentReference).
			Set("paid_date = ?", time.Now()).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", cashflow.ID).
			Exec(ctx)
		return err
	})
	return err
}

func isUniqueViolation(err error) bool {
	pgErr := pgdriver.Error{}
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}

var _ Store = (*DatabaseStore)(nil)
