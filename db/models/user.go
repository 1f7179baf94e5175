package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User : User Model
type User struct {
	ID         uuid.UUID    `json:"id" bun:"type:uuid,pk"`
	RoleID     uuid.UUID    `json:"role_id" bun:"type:uuid,notnull"`
	Role       *Role        `json:"-" bun:"rel:belongs-to,join:role_id=id"`
	LandlordID uuid.UUID    `json:"landlord_id" bun:"type:uuid,nullzero"`
	Landlord   *Landlord    `json:"-" bun:"rel:belongs-to,join:landlord_id=id"`
	IsLandlord bool         `json:"is_landlord" bun:",nullzero"`
	FirstName  string       `json:"fname" bun:"fname,nullzero"`
	LastName   string       `json:"lname" bun:"lname,nullzero"`
	Email      string       `json:"email" bun:",unique,notnull"`
	Phone      string       `json:"phone" bun:",nullzero"`
	Password   string       `json:"-" bun:",notnull"`
	ProfilePic string       `json:"profile_pic" bun:",nullzero"`
	Gender     string       `json:"gender" bun:",nullzero"`
	IsActive   bool         `json:"is_active" bun:",notnull,default:true"`
	IsVerified bool         `json:"is_verified" bun:",notnull,default:false"`
	CreatedAt  time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt  bun.NullTime `json:"updated_at"`
}

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
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

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

var _ bun.BeforeAppendModelHook = (*User)(nil)
