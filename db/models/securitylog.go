package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SecurityLog : Security Log Model
type SecurityLog struct {
	ID        uuid.UUID `json:"id" bun:"type:uuid,pk"`
	UserID    uuid.UUID `json:"user_id" bun:"type:uuid,nullzero"`
	User      *User     `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	Event     string    `json:"event" bun:",notnull"`
	IP        string    `json:"ip" bun:",nullzero"`
	UserAgent string    `json:"user_agent" bun:",nullzero"`
	Detail    string    `json:"detail" bun:",nullzero"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

func (s *SecurityLog) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*SecurityLog)(nil)
