package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// PropertyUnit : Property Unit Model
//
// SupplierCode routes payout funds for this unit through the payment
// gateway's split-payment feature. A unit without a supplier code can
// collect rent but can not be paid out.
type PropertyUnit struct {
	ID               uuid.UUID       `json:"id" bun:"type:uuid,pk"`
	PropertyID       uuid.UUID       `json:"property_id" bun:"type:uuid,notnull"`
	Property         *Property       `json:"-" bun:"rel:belongs-to,join:property_id=id"`
	Name             string          `json:"name" bun:",nullzero"`
	UnitNo           string          `json:"unit_no" bun:",nullzero"`
	UnitType         string          `json:"unit_type" bun:",nullzero"`
	Size             string          `json:"size" bun:",nullzero"`
	Rent             decimal.Decimal `json:"rent" bun:"type:numeric(12,3),nullzero"`
	Description      string          `json:"description" bun:",nullzero"`
	Pictures         []string        `json:"pictures" bun:"type:jsonb,nullzero"`
	Bedrooms         string          `json:"bedrooms" bun:",nullzero"`
	Bathrooms        string          `json:"bathrooms" bun:",nullzero"`
	WaterMeter       string          `json:"water_meter" bun:",nullzero"`
	ElectricityMeter string          `json:"electricity_meter" bun:",nullzero"`
	AccountName      string          `json:"account_name" bun:",nullzero"`
	AccountNo        string          `json:"account_no" bun:",nullzero"`
	BankName         string          `json:"bank_name" bun:",nullzero"`
	SupplierCode     string          `json:"supplier_code" bun:",nullzero"`
	Status           string          `json:"status" bun:",nullzero"`
	CreatedAt        time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt        bun.NullTime    `json:"updated_at"`
}

func (u *PropertyUnit) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
	case *bun.UpdateQuery:
		u.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*PropertyUnit)(nil)
