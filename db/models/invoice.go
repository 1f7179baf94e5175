package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/rentstack/pmp/common"
)

// Invoice : Invoice Model
//
// One invoice covers one billing period of a tenancy. Qty carries the
// billing-cycle length in months (1 monthly, 3 quarterly, 12 yearly);
// the rollover job uses it to compute the successor invoice's due date.
type Invoice struct {
	ID             uuid.UUID       `json:"id" bun:"type:uuid,pk"`
	LandlordID     uuid.UUID       `json:"landlord_id" bun:"type:uuid,nullzero"`
	Landlord       *Landlord       `json:"-" bun:"rel:belongs-to,join:landlord_id=id"`
	TenantID       uuid.UUID       `json:"tenant_id" bun:"type:uuid,nullzero"`
	Tenant         *Tenant         `json:"-" bun:"rel:belongs-to,join:tenant_id=id"`
	InvoiceNo      string          `json:"invoice_no" bun:",nullzero"`
	TotalAmount    decimal.Decimal `json:"total_amount" bun:"type:numeric(12,3),notnull"`
	PaidAmount     decimal.Decimal `json:"paid_amount" bun:"type:numeric(12,3),notnull,default:0"`
	DiscountAmount decimal.Decimal `json:"discount_amount" bun:"type:numeric(12,3),notnull,default:0"`
	DueAmount      decimal.Decimal `json:"due_amount" bun:"type:numeric(12,3),notnull,default:0"`
	Currency       string          `json:"currency" bun:",notnull,default:'KWD'"`
	Status         string          `json:"status" bun:",notnull,default:'unpaid'"`
	PaymentDate    bun.NullTime    `json:"payment_date"`
	InvoiceDate    time.Time       `json:"invoice_date" bun:",nullzero,notnull,default:current_timestamp"`
	DueDate        time.Time       `json:"due_date" bun:",notnull"`
	Description    string          `json:"description" bun:",nullzero"`
	PaymentMethod  string          `json:"payment_method" bun:",nullzero"`
	Qty            int             `json:"qty" bun:",notnull,default:1"`
	CreatedBy      string          `json:"created_by" bun:",nullzero,default:'machine'"`
	UpdatedBy      string          `json:"updated_by" bun:",nullzero"`
	CreatedAt      time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt      bun.NullTime    `json:"updated_at"`

	Items []*InvoiceItem `json:"items,omitempty" bun:"rel:has-many,join:id=invoice_id"`
}

func (i *Invoice) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if i.ID == uuid.Nil {
			i.ID = uuid.New()
		}
	case *bun.UpdateQuery:
		i.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

// NextDueDate computes the due date of the successor invoice from the
// billing-cycle length stored in Qty. A qty below one bills monthly.
func (i *Invoice) NextDueDate() time.Time {
	months := i.Qty
	if months < 1 {
		months = common.CycleMonthsMonthly
	}
	if months == common.CycleMonthsYearly {
		return i.DueDate.AddDate(1, 0, 0)
	}
	return i.DueDate.AddDate(0, months, 0)
}

func (i *Invoice) IsPaid() bool {
	return i.Status == common.InvoiceStatusPaid
}

var _ bun.BeforeAppendModelHook = (*Invoice)(nil)
