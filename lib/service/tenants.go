package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentstack/pmp/db/models"
)

// CreateTenant records a lease against a property unit. The unit must not
// already have an approved, active tenant whose contract is still running.
func (svc *PmpService) CreateTenant(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	occupied, err := svc.unitOccupied(ctx, tenant.PropertyUnitID, tenant.ID)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, ErrUnitOccupied
	}
	_, err = svc.DB.NewInsert().Model(tenant).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (svc *PmpService) FindTenant(ctx context.Context, tenantId uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant

	err := svc.DB.NewSelect().Model(&tenant).
		Relation("User").
		Relation("PropertyUnit").
		Where("tenant.id = ?", tenantId).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (svc *PmpService) TenantsFor(ctx context.Context, unitId uuid.UUID, activeOnly bool, page, size int) (*ListResult, error) {
	tenants := []models.Tenant{}

	query := svc.DB.NewSelect().Model(&tenants).Where("property_unit_id = ?", unitId)
	if activeOnly {
		query.Where("is_active = ?", true)
	}
	total, err := query.OrderExpr("created_at DESC").Limit(size).Offset((page - 1) * size).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Page: page, Size: size, Items: tenants}, nil
}

func (svc *PmpService) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	_, err := svc.DB.NewUpdate().Model(tenant).WherePK().Exec(ctx)
	return err
}

// ApproveTenant flips the approval flag after re-checking the occupancy
// invariant, since other tenants may have been approved in the meantime.
func (svc *PmpService) ApproveTenant(ctx context.Context, tenantId uuid.UUID) (*models.Tenant, error) {
	tenant, err := svc.FindTenant(ctx, tenantId)
	if err != nil {
		return nil, err
	}
	occupied, err := svc.unitOccupied(ctx, tenant.PropertyUnitID, tenant.ID)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, ErrUnitOccupied
	}
	tenant.IsApproved = true
	_, err = svc.DB.NewUpdate().Model(tenant).
		Column("is_approved", "updated_at").
		WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// DeactivateTenant ends a lease without deleting its history.
func (svc *PmpService) DeactivateTenant(ctx context.Context, tenantId uuid.UUID) error {
	var tenant models.Tenant
	tenant.ID = tenantId
	tenant.IsActive = false
	tenant.LeavingDate = models.NowNullTime()

	_, err := svc.DB.NewUpdate().Model(&tenant).
		Column("is_active", "leaving_date", "updated_at").
		WherePK().Exec(ctx)
	return err
}

func (svc *PmpService) unitOccupied(ctx context.Context, unitId uuid.UUID, excludeTenantId uuid.UUID) (bool, error) {
	return svc.DB.NewSelect().Model((*models.Tenant)(nil)).
		Where("property_unit_id = ?", unitId).
		Where("is_active = ?", true).
		Where("is_approved = ?", true).
		Where("contract_end >= ?", time.Now()).
		Where("id != ?", excludeTenantId).
		Exists(ctx)
}
