package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Landlord : Landlord Model
type Landlord struct {
	ID             uuid.UUID    `json:"id" bun:"type:uuid,pk"`
	Title          string       `json:"title" bun:",nullzero"`
	Image          string       `json:"image" bun:",nullzero"`
	SubscriptionID string       `json:"subscription_id" bun:",nullzero"`
	ExpirationDate bun.NullTime `json:"expiration_date"`
	CreatedAt      time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt      bun.NullTime `json:"updated_at"`
}

func (l *Landlord) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
	case *bun.UpdateQuery:
		l.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Landlord)(nil)
