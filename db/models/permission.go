package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Permission : Permission Model
type Permission struct {
	ID                 uuid.UUID `json:"id" bun:"type:uuid,pk"`
	Name               string    `json:"name" bun:",notnull"`
	PermissionSequence int       `json:"permission_sequence" bun:",nullzero"`
	PermissionParent   string    `json:"permission_parent" bun:",nullzero"`
	Desc               string    `json:"desc" bun:",nullzero"`
	Action             string    `json:"action" bun:",notnull"`
	PermissionType     string    `json:"permission_type" bun:",notnull"`
	ShowOnMenu         bool      `json:"show_on_menu" bun:",notnull,default:false"`
	IsActive           bool      `json:"is_active" bun:",notnull,default:true"`
	CreatedAt          time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

func (p *Permission) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Permission)(nil)
