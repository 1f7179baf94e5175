package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/lib/tokens"
)

func createTestUser(t *testing.T, svc *PmpService, email, password string) *models.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), &models.User{
		FirstName: "Test",
		Email:     email,
		IsActive:  true,
	}, password)
	require.NoError(t, err)
	return user
}

func TestGenerateTokenWithPassword(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()
	user := createTestUser(t, svc, "login@example.com", "correct-horse-battery")

	accessToken, refreshToken, err := svc.GenerateToken(ctx, "login@example.com", "correct-horse-battery", "")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	userId, err := tokens.ParseToken(svc.Config.JWTSecret, accessToken, false)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userId)
}

func TestGenerateTokenWrongPassword(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()
	createTestUser(t, svc, "login@example.com", "correct-horse-battery")

	_, _, err := svc.GenerateToken(ctx, "login@example.com", "wrong", "")
	assert.Error(t, err)

	// the failure is recorded in the security log
	count, err := svc.DB.NewSelect().Model((*models.SecurityLog)(nil)).
		Where("event = ?", common.SecurityEventLoginFailed).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGenerateTokenExpiredSubscription(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	landlord, err := svc.CreateLandlord(ctx, &models.Landlord{
		Title:          "Lapsed Properties Co",
		SubscriptionID: "sub-basic",
		ExpirationDate: bun.NullTime{Time: time.Now().AddDate(0, -1, 0)},
	})
	require.NoError(t, err)

	user := createTestUser(t, svc, "lapsed@example.com", "correct-horse-battery")
	user.LandlordID = landlord.ID
	require.NoError(t, svc.UpdateUser(ctx, user))

	_, _, err = svc.GenerateToken(ctx, "lapsed@example.com", "correct-horse-battery", "")
	assert.ErrorIs(t, err, ErrSubscriptionExpired)

	// renewing the plan lets the whole staff back in
	landlord.ExpirationDate = bun.NullTime{Time: time.Now().AddDate(1, 0, 0)}
	require.NoError(t, svc.UpdateLandlord(ctx, landlord))

	_, _, err = svc.GenerateToken(ctx, "lapsed@example.com", "correct-horse-battery", "")
	assert.NoError(t, err)
}

func TestSecurityLogRecordsClientInfo(t *testing.T) {
	svc, _, _ := testService(t)
	user := createTestUser(t, svc, "login@example.com", "correct-horse-battery")

	ctx := WithClientInfo(context.Background(), ClientInfo{
		IP:        "203.0.113.7",
		UserAgent: "pmp-test/1.0",
	})
	_, _, err := svc.GenerateToken(ctx, "login@example.com", "correct-horse-battery", "")
	require.NoError(t, err)

	entry := models.SecurityLog{}
	require.NoError(t, svc.DB.NewSelect().Model(&entry).
		Where("event = ?", common.SecurityEventLoginSuccess).
		Where("user_id = ?", user.ID).Scan(ctx))
	assert.Equal(t, "203.0.113.7", entry.IP)
	assert.Equal(t, "pmp-test/1.0", entry.UserAgent)

	svc.Logout(ctx, user)
	count, err := svc.DB.NewSelect().Model((*models.SecurityLog)(nil)).
		Where("event = ?", common.SecurityEventLogout).
		Where("user_id = ?", user.ID).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGenerateTokenWithRefreshToken(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()
	createTestUser(t, svc, "login@example.com", "correct-horse-battery")

	_, refreshToken, err := svc.GenerateToken(ctx, "login@example.com", "correct-horse-battery", "")
	require.NoError(t, err)

	accessToken, _, err := svc.GenerateToken(ctx, "", "", refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}

func TestGenerateTokenDeactivatedUser(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()
	user := createTestUser(t, svc, "login@example.com", "correct-horse-battery")
	require.NoError(t, svc.DeactivateUser(ctx, user.ID))

	_, _, err := svc.GenerateToken(ctx, "login@example.com", "correct-horse-battery", "")
	assert.Error(t, err)
}

func TestChangePasswordRequiresOldPassword(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()
	user := createTestUser(t, svc, "login@example.com", "correct-horse-battery")

	err := svc.ChangePassword(ctx, user, "wrong-old", "new-password-123")
	assert.Error(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user, "correct-horse-battery", "new-password-123"))

	_, _, err = svc.GenerateToken(ctx, "login@example.com", "new-password-123", "")
	assert.NoError(t, err)
}
