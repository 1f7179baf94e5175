package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Tenant : Tenant Model
//
// A tenant is a user's lease record against a property unit. A unit is
// expected to have at most one approved, active tenant whose contract
// window has not ended; the tenants service enforces this on create and
// approve.
type Tenant struct {
	ID             uuid.UUID       `json:"id" bun:"type:uuid,pk"`
	UserID         uuid.UUID       `json:"user_id" bun:"type:uuid,notnull"`
	User           *User           `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	PropertyUnitID uuid.UUID       `json:"property_unit_id" bun:"type:uuid,notnull"`
	PropertyUnit   *PropertyUnit   `json:"-" bun:"rel:belongs-to,join:property_unit_id=id"`
	TenantType     string          `json:"tenant_type" bun:",nullzero"`
	CivilID        string          `json:"civil_id" bun:",nullzero"`
	Nationality    string          `json:"nationality" bun:",nullzero"`
	LegalCase      bool            `json:"legal_case" bun:",notnull,default:false"`
	Language       string          `json:"language" bun:",nullzero"`
	ContractStart  time.Time       `json:"contract_start" bun:",notnull"`
	ContractEnd    time.Time       `json:"contract_end" bun:",notnull"`
	ContractNumber string          `json:"contract_number" bun:",notnull"`
	RentPrice      decimal.Decimal `json:"rent_price" bun:"type:numeric(12,3),notnull"`
	RentPayDay     int             `json:"rent_pay_day" bun:",notnull"`
	PaymentCycle   string          `json:"payment_cycle" bun:",notnull"` // monthly, quarterly, yearly
	LeavingDate    bun.NullTime    `json:"leaving_date"`
	IsActive       bool            `json:"is_active" bun:",notnull,default:true"`
	IsApproved     bool            `json:"is_approved" bun:",notnull,default:false"`
	CreatedAt      time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt      bun.NullTime    `json:"updated_at"`
}

func (t *Tenant) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
	case *bun.UpdateQuery:
		t.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

// InContractWindow reports whether ts falls inside the tenant's contract.
func (t *Tenant) InContractWindow(ts time.Time) bool {
	return !t.ContractStart.After(ts) && !t.ContractEnd.Before(ts)
}

var _ bun.BeforeAppendModelHook = (*Tenant)(nil)
