package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role : Role Model
type Role struct {
	ID         uuid.UUID `json:"id" bun:"type:uuid,pk"`
	Name       string    `json:"name" bun:",notnull"`
	Desc       string    `json:"desc" bun:",nullzero"`
	IsActive   bool      `json:"is_active" bun:",notnull,default:true"`
	LandlordID uuid.UUID `json:"landlord_id" bun:"type:uuid,nullzero"`
	CreatedAt  time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

func (r *Role) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RolePermission : Role / Permission join table
type RolePermission struct {
	ID           uuid.UUID   `json:"id" bun:"type:uuid,pk"`
	RoleID       uuid.UUID   `json:"role_id" bun:"type:uuid,notnull"`
	Role         *Role       `json:"-" bun:"rel:belongs-to,join:role_id=id"`
	PermissionID uuid.UUID   `json:"permission_id" bun:"type:uuid,notnull"`
	Permission   *Permission `json:"-" bun:"rel:belongs-to,join:permission_id=id"`
	IsActive     bool        `json:"is_active" bun:",notnull,default:true"`
}

func (rp *RolePermission) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && rp.ID == uuid.Nil {
		rp.ID = uuid.New()
	}
	return nil
}

var (
	_ bun.BeforeAppendModelHook = (*Role)(nil)
	_ bun.BeforeAppendModelHook = (*RolePermission)(nil)
)
