package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentstack/pmp/db/models"
)

func (svc *PmpService) CreateLandlord(ctx context.Context, landlord *models.Landlord) (*models.Landlord, error) {
	_, err := svc.DB.NewInsert().Model(landlord).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return landlord, nil
}

func (svc *PmpService) FindLandlord(ctx context.Context, landlordId uuid.UUID) (*models.Landlord, error) {
	var landlord models.Landlord

	err := svc.DB.NewSelect().Model(&landlord).Where("id = ?", landlordId).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &landlord, nil
}

func (svc *PmpService) LandlordsFor(ctx context.Context, search string, page, size int) (*ListResult, error) {
	landlords := []models.Landlord{}

	query := svc.DB.NewSelect().Model(&landlords)
	if search != "" {
		query.Where("lower(title) LIKE ?", "%"+search+"%")
	}
	total, err := query.OrderExpr("created_at DESC").Limit(size).Offset((page - 1) * size).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Page: page, Size: size, Items: landlords}, nil
}

// SubscriptionActive reports whether the landlord's plan still covers
// now. A landlord without an expiration date runs on an open-ended plan.
func (svc *PmpService) SubscriptionActive(ctx context.Context, landlordId uuid.UUID, now time.Time) (bool, error) {
	landlord, err := svc.FindLandlord(ctx, landlordId)
	if err != nil {
		return false, err
	}
	if landlord.ExpirationDate.Time.IsZero() {
		return true, nil
	}
	return landlord.ExpirationDate.Time.After(now), nil
}

func (svc *PmpService) UpdateLandlord(ctx context.Context, landlord *models.Landlord) error {
	_, err := svc.DB.NewUpdate().Model(landlord).WherePK().Exec(ctx)
	return err
}
