package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rentstack/pmp/db/models"
)

func (svc *PmpService) CreateRole(ctx context.Context, role *models.Role, permissionIds []uuid.UUID) (*models.Role, error) {
	_, err := svc.DB.NewInsert().Model(role).Exec(ctx)
	if err != nil {
		return nil, err
	}
	for _, permissionId := range permissionIds {
		rp := &models.RolePermission{RoleID: role.ID, PermissionID: permissionId, IsActive: true}
		if _, err := svc.DB.NewInsert().Model(rp).Exec(ctx); err != nil {
			return nil, err
		}
	}
	return role, nil
}

func (svc *PmpService) RolesFor(ctx context.Context, landlordId uuid.UUID, page, size int) (*ListResult, error) {
	roles := []models.Role{}

	query := svc.DB.NewSelect().Model(&roles).Where("is_active = ?", true)
	if landlordId != uuid.Nil {
		query.Where("landlord_id = ?", landlordId)
	}
	total, err := query.OrderExpr("name ASC").Limit(size).Offset((page - 1) * size).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Page: page, Size: size, Items: roles}, nil
}

func (svc *PmpService) Permissions(ctx context.Context) ([]models.Permission, error) {
	permissions := []models.Permission{}
	err := svc.DB.NewSelect().Model(&permissions).
		Where("is_active = ?", true).
		OrderExpr("permission_sequence ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

func (svc *PmpService) PermissionsForRole(ctx context.Context, roleId uuid.UUID) ([]models.Permission, error) {
	permissions := []models.Permission{}
	err := svc.DB.NewSelect().Model(&permissions).
		Join("JOIN role_permissions AS rp ON rp.permission_id = permission.id").
		Where("rp.role_id = ?", roleId).
		Where("rp.is_active = ?", true).
		Where("permission.is_active = ?", true).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

// HasPermission reports whether the user's role grants an action, e.g.
// "invoice:create". Landlord owners bypass the per-permission check.
func (svc *PmpService) HasPermission(ctx context.Context, user *models.User, action string) (bool, error) {
	if user.IsLandlord {
		return true, nil
	}
	return svc.DB.NewSelect().Model((*models.Permission)(nil)).
		Join("JOIN role_permissions AS rp ON rp.permission_id = permission.id").
		Where("rp.role_id = ?", user.RoleID).
		Where("rp.is_active = ?", true).
		Where("permission.is_active = ?", true).
		Where("permission.action = ?", action).
		Exists(ctx)
}
