package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. Indexes can not be created!\n")
			return nil
		}
		sql := `
			CREATE INDEX IF NOT EXISTS invoices_landlord_id_idx ON invoices (landlord_id);

			-- invoice numbers are count+1 per landlord inside a transaction;
			-- the unique index is what actually guarantees no duplicates
			-- when two creators race under read committed
			CREATE UNIQUE INDEX IF NOT EXISTS invoices_landlord_invoice_no_key
				ON invoices (landlord_id, invoice_no);
			CREATE INDEX IF NOT EXISTS invoices_tenant_due_date_idx ON invoices (tenant_id, due_date);
			CREATE INDEX IF NOT EXISTS invoices_status_due_date_idx ON invoices (status, due_date);

			-- the payout job scans for settled payments awaiting payout
			CREATE INDEX IF NOT EXISTS payment_histories_payout_idx
				ON payment_histories (status, payout_status, next_payout_attempt_at);

			CREATE INDEX IF NOT EXISTS tenants_property_unit_id_idx ON tenants (property_unit_id);
			CREATE INDEX IF NOT EXISTS security_logs_user_id_idx ON security_logs (user_id);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
