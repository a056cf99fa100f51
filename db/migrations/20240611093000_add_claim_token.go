package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		// claim_token identifies the owner of an in-flight payment claim
		_, err := db.Exec(`ALTER TABLE payments ADD COLUMN IF NOT EXISTS claim_token VARCHAR`)
		return err
	}, nil)
}
