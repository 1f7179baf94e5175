package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SupportTicket : Support Ticket Model
type SupportTicket struct {
	ID          uuid.UUID    `json:"id" bun:"type:uuid,pk"`
	UserID      uuid.UUID    `json:"user_id" bun:"type:uuid,notnull"`
	User        *User        `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	LandlordID  uuid.UUID    `json:"landlord_id" bun:"type:uuid,nullzero"`
	Subject     string       `json:"subject" bun:",notnull"`
	Description string       `json:"description" bun:",nullzero"`
	Priority    string       `json:"priority" bun:",nullzero"`
	Status      string       `json:"status" bun:",notnull,default:'open'"`
	Attachment  string       `json:"attachment" bun:",nullzero"`
	CreatedAt   time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   bun.NullTime `json:"updated_at"`
}

func (t *SupportTicket) BeforeAppendModel(ctx context.Context, query bun.Query) error {
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

var _ bun.BeforeAppendModelHook = (*SupportTicket)(nil)
