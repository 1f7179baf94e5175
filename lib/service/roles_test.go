package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
)

func createTestPermission(t *testing.T, svc *PmpService, action string, active bool) *models.Permission {
	t.Helper()
	permission := &models.Permission{
		Name:           action,
		Action:         action,
		PermissionType: "action",
		IsActive:       active,
	}
	_, err := svc.DB.NewInsert().Model(permission).Exec(context.Background())
	require.NoError(t, err)
	return permission
}

func TestHasPermissionLandlordBypass(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	owner := createTestUser(t, svc, "owner@example.com", "super-secret-pw")
	owner.IsLandlord = true
	require.NoError(t, svc.UpdateUser(ctx, owner))

	granted, err := svc.HasPermission(ctx, owner, common.PermissionInvoiceCreate)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestHasPermissionGrantAndDeny(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	invoiceCreate := createTestPermission(t, svc, common.PermissionInvoiceCreate, true)
	role, err := svc.CreateRole(ctx, &models.Role{Name: "accountant", IsActive: true}, []uuid.UUID{invoiceCreate.ID})
	require.NoError(t, err)

	staff := createTestUser(t, svc, "staff@example.com", "super-secret-pw")
	staff.RoleID = role.ID
	require.NoError(t, svc.UpdateUser(ctx, staff))

	granted, err := svc.HasPermission(ctx, staff, common.PermissionInvoiceCreate)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = svc.HasPermission(ctx, staff, common.PermissionTenantApprove)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestHasPermissionIgnoresInactiveGrant(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	inactive := createTestPermission(t, svc, common.PermissionInvoiceCancel, false)
	role, err := svc.CreateRole(ctx, &models.Role{Name: "trainee", IsActive: true}, []uuid.UUID{inactive.ID})
	require.NoError(t, err)

	staff := createTestUser(t, svc, "trainee@example.com", "super-secret-pw")
	staff.RoleID = role.ID
	require.NoError(t, svc.UpdateUser(ctx, staff))

	granted, err := svc.HasPermission(ctx, staff, common.PermissionInvoiceCancel)
	require.NoError(t, err)
	assert.False(t, granted)
}
