package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rentstack/pmp/db/models"
)

func (svc *PmpService) CreateProperty(ctx context.Context, property *models.Property) (*models.Property, error) {
	_, err := svc.DB.NewInsert().Model(property).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return property, nil
}

func (svc *PmpService) FindProperty(ctx context.Context, propertyId uuid.UUID) (*models.Property, error) {
	var property models.Property

	err := svc.DB.NewSelect().Model(&property).
		Relation("Units").
		Where("property.id = ?", propertyId).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (svc *PmpService) PropertiesFor(ctx context.Context, landlordId uuid.UUID, search string, page, size int) (*ListResult, error) {
	properties := []models.Property{}

	query := svc.DB.NewSelect().Model(&properties).Where("landlord_id = ?", landlordId)
	if search != "" {
		query.Where("(lower(name) LIKE ? OR lower(city) LIKE ?)", "%"+search+"%", "%"+search+"%")
	}
	total, err := query.OrderExpr("created_at DESC").Limit(size).Offset((page - 1) * size).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Page: page, Size: size, Items: properties}, nil
}

func (svc *PmpService) UpdateProperty(ctx context.Context, property *models.Property) error {
	_, err := svc.DB.NewUpdate().Model(property).WherePK().Exec(ctx)
	return err
}

func (svc *PmpService) CreatePropertyUnit(ctx context.Context, unit *models.PropertyUnit) (*models.PropertyUnit, error) {
	_, err := svc.DB.NewInsert().Model(unit).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return unit, nil
}

func (svc *PmpService) FindPropertyUnit(ctx context.Context, unitId uuid.UUID) (*models.PropertyUnit, error) {
	var unit models.PropertyUnit

	err := svc.DB.NewSelect().Model(&unit).Where("id = ?", unitId).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (svc *PmpService) PropertyUnitsFor(ctx context.Context, propertyId uuid.UUID, page, size int) (*ListResult, error) {
	units := []models.PropertyUnit{}

	query := svc.DB.NewSelect().Model(&units).Where("property_id = ?", propertyId)
	total, err := query.OrderExpr("unit_no ASC").Limit(size).Offset((page - 1) * size).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Page: page, Size: size, Items: units}, nil
}

func (svc *PmpService) UpdatePropertyUnit(ctx context.Context, unit *models.PropertyUnit) error {
	_, err := svc.DB.NewUpdate().Model(unit).WherePK().Exec(ctx)
	return err
}
