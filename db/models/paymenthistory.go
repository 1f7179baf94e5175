package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/rentstack/pmp/common"
)

// PaymentHistory : Payment History Model
//
// One row per payment attempt against an invoice. Status follows the
// gateway (pending -> paid/failed); PayoutStatus tracks the transfer of
// collected rent to the unit's supplier account. Rows are never deleted.
type PaymentHistory struct {
	ID             uuid.UUID              `json:"id" bun:"type:uuid,pk"`
	UserID         uuid.UUID              `json:"user_id" bun:"type:uuid,notnull"`
	User           *User                  `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	InvoiceID      uuid.UUID              `json:"invoice_id" bun:"type:uuid,notnull"`
	Invoice        *Invoice               `json:"-" bun:"rel:belongs-to,join:invoice_id=id"`
	PropertyUnitID uuid.UUID              `json:"property_unit_id" bun:"type:uuid,nullzero"`
	PropertyUnit   *PropertyUnit          `json:"-" bun:"rel:belongs-to,join:property_unit_id=id"`
	Amount         decimal.Decimal        `json:"amount" bun:"type:numeric(12,3),notnull"`
	Currency       string                 `json:"currency" bun:",notnull,default:'KWD'"`
	PaymentType    string                 `json:"payment_type" bun:",notnull"` // rent, subscription
	PaymentURL     string                 `json:"payment_url" bun:",nullzero"`
	GatewayID      string                 `json:"gateway_id" bun:"gateway_id,nullzero"`
	Payload        map[string]interface{} `json:"-" bun:"type:jsonb,nullzero"`
	Status         string                 `json:"status" bun:",notnull,default:'pending'"`

	PayoutStatus        string       `json:"payout_status" bun:",notnull,default:'pending'"`
	PayoutError         string       `json:"payout_error" bun:",nullzero"`
	PayoutAttempts      int          `json:"payout_attempts" bun:",notnull,default:0"`
	NextPayoutAttemptAt bun.NullTime `json:"next_payout_attempt_at"`

	CreatedAt time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt bun.NullTime `json:"updated_at"`
}

func (p *PaymentHistory) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	case *bun.UpdateQuery:
		p.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

func (p *PaymentHistory) IsSettled() bool {
	return p.Status == common.PaymentStatusPaid || p.Status == common.PaymentStatusFailed
}

var _ bun.BeforeAppendModelHook = (*PaymentHistory)(nil)
