package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/lib/security"
)

func (svc *PmpService) CreateUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	user.Password = security.HashPassword(password)
	_, err := svc.DB.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (svc *PmpService) FindUser(ctx context.Context, userId uuid.UUID) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("id = ?", userId).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (svc *PmpService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (svc *PmpService) UsersFor(ctx context.Context, landlordId uuid.UUID, search string, page, size int) (*ListResult, error) {
	users := []models.User{}

	query := svc.DB.NewSelect().Model(&users).Where("is_active = TRUE")
	if landlordId != uuid.Nil {
		query.Where("landlord_id = ?", landlordId)
	}
	if search != "" {
		query.Where("(lower(fname) LIKE ? OR lower(lname) LIKE ? OR lower(email) LIKE ?)",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	total, err := query.OrderExpr("created_at DESC").Limit(size).Offset((page - 1) * size).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Page: page, Size: size, Items: users}, nil
}

func (svc *PmpService) UpdateUser(ctx context.Context, user *models.User) error {
	_, err := svc.DB.NewUpdate().Model(user).WherePK().Exec(ctx)
	return err
}

func (svc *PmpService) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error {
	if !security.VerifyPassword(user.Password, oldPassword) {
		return fmt.Errorf("bad auth")
	}
	user.Password = security.HashPassword(newPassword)
	if err := svc.UpdateUser(ctx, user); err != nil {
		return err
	}
	svc.LogSecurityEvent(ctx, user, common.SecurityEventPasswordChanged, "")
	return nil
}

// DeactivateUser soft deletes: the row stays for audit and FK integrity.
func (svc *PmpService) DeactivateUser(ctx context.Context, userId uuid.UUID) error {
	user, err := svc.FindUser(ctx, userId)
	if err != nil {
		return err
	}
	user.IsActive = false
	return svc.UpdateUser(ctx, user)
}
