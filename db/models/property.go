package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Property : Property Model
type Property struct {
	ID            uuid.UUID    `json:"id" bun:"type:uuid,pk"`
	LandlordID    uuid.UUID    `json:"landlord_id" bun:"type:uuid,notnull"`
	Landlord      *Landlord    `json:"-" bun:"rel:belongs-to,join:landlord_id=id"`
	Name          string       `json:"name" bun:",nullzero"`
	City          string       `json:"city" bun:",nullzero"`
	Governance    string       `json:"governance" bun:",nullzero"`
	Address       string       `json:"address" bun:",nullzero"`
	Address2      string       `json:"address2" bun:",nullzero"`
	Description   string       `json:"description" bun:",nullzero"`
	Pictures      []string     `json:"pictures" bun:"type:jsonb,nullzero"`
	PropertyType  string       `json:"property_type" bun:",nullzero"`
	Type          string       `json:"type" bun:",nullzero"` // residential, commercial
	PaciNo        string       `json:"paci_no" bun:",nullzero"`
	PropertyNo    string       `json:"property_no" bun:",nullzero"`
	CivilNo       string       `json:"civil_no" bun:",nullzero"`
	BuildYear     string       `json:"build_year" bun:",nullzero"`
	BookValue     string       `json:"book_value" bun:",nullzero"`
	EstimateValue string       `json:"estimate_value" bun:",nullzero"`
	Latitude      string       `json:"latitude" bun:",nullzero"`
	Longitude     string       `json:"longitude" bun:",nullzero"`
	Status        string       `json:"status" bun:",nullzero"`
	CreatedAt     time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt     bun.NullTime `json:"updated_at"`

	Units []*PropertyUnit `json:"units,omitempty" bun:"rel:has-many,join:id=property_id"`
}

func (p *Property) BeforeAppendModel(ctx context.Context, query bun.Query) error {
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

var _ bun.BeforeAppendModelHook = (*Property)(nil)
