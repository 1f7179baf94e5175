package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/rentstack/pmp/db/models"
)

/* Since this init will reflect the latest model fields when run on fresh db
make sure that when you add/remove columns in subsequent migrations IfNotExists/IfExists is used
otherwise it's going to result in errors.
*/
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		tables := []interface{}{
			(*models.Landlord)(nil),
			(*models.Role)(nil),
			(*models.Permission)(nil),
			(*models.RolePermission)(nil),
			(*models.User)(nil),
			(*models.Property)(nil),
			(*models.PropertyUnit)(nil),
			(*models.Tenant)(nil),
			(*models.Invoice)(nil),
			(*models.InvoiceItem)(nil),
			(*models.PaymentHistory)(nil),
			(*models.SupportTicket)(nil),
			(*models.SecurityLog)(nil),
		}
		for _, table := range tables {
			if _, err := db.NewCreateTable().Model(table).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}
