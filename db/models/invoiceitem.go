package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// InvoiceItem : Invoice Item Model
type InvoiceItem struct {
	ID        uuid.UUID       `json:"id" bun:"type:uuid,pk"`
	InvoiceID uuid.UUID       `json:"invoice_id" bun:"type:uuid,notnull"`
	Invoice   *Invoice        `json:"-" bun:"rel:belongs-to,join:invoice_id=id"`
	Name      string          `json:"name" bun:",notnull"`
	Qty       int             `json:"qty" bun:",notnull,default:1"`
	UnitPrice decimal.Decimal `json:"unit_price" bun:"type:numeric(12,3),notnull"`
	Amount    decimal.Decimal `json:"amount" bun:"type:numeric(12,3),notnull"`
	CreatedAt time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt bun.NullTime    `json:"updated_at"`
}

func (ii *InvoiceItem) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if ii.ID == uuid.Nil {
			ii.ID = uuid.New()
		}
	case *bun.UpdateQuery:
		ii.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*InvoiceItem)(nil)
