package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
)

func TestSecondApprovedTenantRejected(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, _, unit, _ := createTestLease(t, svc, common.PaymentCycleMonthly,
		time.Now().AddDate(-1, 0, 0), time.Now().AddDate(1, 0, 0))

	otherUser, err := svc.CreateUser(ctx, &models.User{
		Email:    "second@example.com",
		IsActive: true,
	}, "another-secret")
	require.NoError(t, err)

	_, err = svc.CreateTenant(ctx, &models.Tenant{
		UserID:         otherUser.ID,
		PropertyUnitID: unit.ID,
		ContractStart:  time.Now(),
		ContractEnd:    time.Now().AddDate(1, 0, 0),
		ContractNumber: "CN-200",
		RentPrice:      decimal.NewFromInt(400),
		PaymentCycle:   common.PaymentCycleMonthly,
		IsActive:       true,
	})
	assert.ErrorIs(t, err, ErrUnitOccupied)
}

func TestNewLeaseAllowedAfterContractEnds(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	// expired lease occupies nothing
	_, _, unit, _ := createTestLease(t, svc, common.PaymentCycleMonthly,
		time.Now().AddDate(-2, 0, 0), time.Now().AddDate(0, -1, 0))

	otherUser, err := svc.CreateUser(ctx, &models.User{
		Email:    "next-tenant@example.com",
		IsActive: true,
	}, "another-secret")
	require.NoError(t, err)

	tenant, err := svc.CreateTenant(ctx, &models.Tenant{
		UserID:         otherUser.ID,
		PropertyUnitID: unit.ID,
		ContractStart:  time.Now(),
		ContractEnd:    time.Now().AddDate(1, 0, 0),
		ContractNumber: "CN-201",
		RentPrice:      decimal.NewFromInt(420),
		PaymentCycle:   common.PaymentCycleMonthly,
		IsActive:       true,
	})
	require.NoError(t, err)
	assert.False(t, tenant.IsApproved)
}

func TestApproveTenantRechecksOccupancy(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, _, unit, _ := createTestLease(t, svc, common.PaymentCycleMonthly,
		time.Now().AddDate(-1, 0, 0), time.Now().AddDate(1, 0, 0))

	// deactivate the sitting tenant so a second application can be stored
	var sitting models.Tenant
	require.NoError(t, svc.DB.NewSelect().Model(&sitting).Limit(1).Scan(ctx))
	require.NoError(t, svc.DeactivateTenant(ctx, sitting.ID))

	otherUser, err := svc.CreateUser(ctx, &models.User{
		Email:    "applicant@example.com",
		IsActive: true,
	}, "another-secret")
	require.NoError(t, err)
	applicant, err := svc.CreateTenant(ctx, &models.Tenant{
		UserID:         otherUser.ID,
		PropertyUnitID: unit.ID,
		ContractStart:  time.Now(),
		ContractEnd:    time.Now().AddDate(1, 0, 0),
		ContractNumber: "CN-202",
		RentPrice:      decimal.NewFromInt(400),
		PaymentCycle:   common.PaymentCycleMonthly,
		IsActive:       true,
	})
	require.NoError(t, err)

	// the sitting tenant comes back before the applicant is approved
	sitting.IsActive = true
	require.NoError(t, svc.UpdateTenant(ctx, &sitting))

	_, err = svc.ApproveTenant(ctx, applicant.ID)
	assert.ErrorIs(t, err, ErrUnitOccupied)
}

func TestDeactivateTenantSetsLeavingDate(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, tenant, _, _ := createTestLease(t, svc, common.PaymentCycleMonthly,
		time.Now().AddDate(-1, 0, 0), time.Now().AddDate(1, 0, 0))

	require.NoError(t, svc.DeactivateTenant(ctx, tenant.ID))

	reloaded, err := svc.FindTenant(ctx, tenant.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.False(t, reloaded.LeavingDate.IsZero())
}
