package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- paid amounts only ever go up, and never below zero
				ALTER TABLE cashflows
				ADD CONSTRAINT check_paid_amount_not_negative
				CHECK (paid_amount >= 0);

			-- a payment always carries a positive amount
				ALTER TABLE payments
				ADD CONSTRAINT check_payment_amount_positive
				CHECK (amount > 0);

			-- a payment is either being applied or applied
				ALTER TABLE payments
				ADD CONSTRAINT check_payment_state
				CHECK (state IN ('initialized', 'settled'));
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
