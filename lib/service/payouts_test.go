package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
)

func createSettledPayment(t *testing.T, svc *PmpService, user *models.User, invoice *models.Invoice, unit *models.PropertyUnit) *models.PaymentHistory {
	t.Helper()
	payment := &models.PaymentHistory{
		UserID:         user.ID,
		InvoiceID:      invoice.ID,
		PropertyUnitID: unit.ID,
		Amount:         invoice.TotalAmount,
		Currency:       "KWD",
		PaymentType:    common.PaymentTypeRent,
		GatewayID:      "900001",
		Status:         common.PaymentStatusPaid,
		PayoutStatus:   common.PayoutStatusPending,
	}
	_, err := svc.DB.NewInsert().Model(payment).Exec(context.Background())
	require.NoError(t, err)
	return payment
}

func TestPayoutSucceeds(t *testing.T) {
	svc, gw, _ := testService(t)
	ctx := context.Background()

	user, tenant, unit, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	invoice := createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)
	payment := createSettledPayment(t, svc, user, invoice, unit)

	result, err := svc.RunPayoutReconciliation(ctx, date(2025, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)

	reloaded, err := svc.FindPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, common.PayoutStatusSuccess, reloaded.PayoutStatus)
	assert.Empty(t, reloaded.PayoutError)
	assert.Equal(t, "SUP-001", gw.lastPayout.SupplierCode)
	assert.InDelta(t, 350, gw.lastPayout.Amount, 0.001)
}

func TestPayoutFailureSchedulesRetryWithBackoff(t *testing.T) {
	svc, gw, _ := testService(t)
	ctx := context.Background()
	gw.payoutErr = errors.New("gateway timeout")

	user, tenant, unit, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	invoice := createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)
	payment := createSettledPayment(t, svc, user, invoice, unit)

	now := date(2025, time.January, 6)
	result, err := svc.RunPayoutReconciliation(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Retried)

	reloaded, err := svc.FindPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, common.PayoutStatusPending, reloaded.PayoutStatus)
	assert.Equal(t, 1, reloaded.PayoutAttempts)
	assert.Contains(t, reloaded.PayoutError, "gateway timeout")
	// first retry waits the initial backoff interval
	assert.True(t, reloaded.NextPayoutAttemptAt.Time.Equal(now.Add(time.Hour)),
		"next attempt %s", reloaded.NextPayoutAttemptAt.Time)
}

func TestPayoutNotRetriedBeforeNextAttempt(t *testing.T) {
	svc, gw, _ := testService(t)
	ctx := context.Background()
	gw.payoutErr = errors.New("gateway timeout")

	user, tenant, unit, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	invoice := createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)
	createSettledPayment(t, svc, user, invoice, unit)

	now := date(2025, time.January, 6)
	_, err := svc.RunPayoutReconciliation(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, gw.payoutCalls)

	// a run before the scheduled next attempt leaves the record alone
	result, err := svc.RunPayoutReconciliation(ctx, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
	assert.Equal(t, 1, gw.payoutCalls)

	// after the backoff has elapsed the record is picked up again
	result, err = svc.RunPayoutReconciliation(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 2, gw.payoutCalls)
}

func TestPayoutExhaustsAttemptsAndFailsTerminally(t *testing.T) {
	svc, gw, _ := testService(t)
	ctx := context.Background()
	gw.payoutDeclined = true

	user, tenant, unit, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	invoice := createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)
	payment := createSettledPayment(t, svc, user, invoice, unit)

	now := date(2025, time.January, 6)
	for attempt := 0; attempt < svc.Config.MaxPayoutAttempts; attempt++ {
		_, err := svc.RunPayoutReconciliation(ctx, now.AddDate(0, 0, attempt*2))
		require.NoError(t, err)
	}

	reloaded, err := svc.FindPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, common.PayoutStatusFailed, reloaded.PayoutStatus)
	assert.Equal(t, svc.Config.MaxPayoutAttempts, reloaded.PayoutAttempts)
	assert.Contains(t, reloaded.PayoutError, "supplier blocked")

	// terminal records are never scanned again
	result, err := svc.RunPayoutReconciliation(ctx, now.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
}

func TestPayoutFailsWithoutSupplierCode(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	user, tenant, unit, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	unit.SupplierCode = ""
	require.NoError(t, svc.UpdatePropertyUnit(ctx, unit))

	invoice := createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)
	payment := createSettledPayment(t, svc, user, invoice, unit)

	result, err := svc.RunPayoutReconciliation(ctx, date(2025, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Retried)

	reloaded, err := svc.FindPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.PayoutAttempts)
	assert.Contains(t, reloaded.PayoutError, "supplier code")
}

func TestPayoutSkipsUnsettledPayments(t *testing.T) {
	svc, gw, _ := testService(t)
	ctx := context.Background()

	user, tenant, unit, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	invoice := createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)
	payment := createSettledPayment(t, svc, user, invoice, unit)
	payment.Status = common.PaymentStatusPending
	_, err := svc.DB.NewUpdate().Model(payment).Column("status").WherePK().Exec(ctx)
	require.NoError(t, err)

	result, err := svc.RunPayoutReconciliation(ctx, date(2025, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
	assert.Equal(t, 0, gw.payoutCalls)
}

func TestPayoutBackoffDoublesUpToCap(t *testing.T) {
	svc, _, _ := testService(t)

	assert.Equal(t, time.Hour, svc.payoutBackoff(1))
	assert.Equal(t, 2*time.Hour, svc.payoutBackoff(2))
	assert.Equal(t, 4*time.Hour, svc.payoutBackoff(3))

	svc.Config.MaxPayoutAttempts = 10
	assert.Equal(t, 24*time.Hour, svc.payoutBackoff(9))
}
