package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
)

func TestRolloverCreatesSuccessorInsideWindow(t *testing.T) {
	svc, _, mail := testService(t)
	ctx := context.Background()

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)

	result, err := svc.RunInvoiceRollover(ctx, date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Failed)

	invoices := []models.Invoice{}
	require.NoError(t, svc.DB.NewSelect().Model(&invoices).
		Where("tenant_id = ?", tenant.ID).OrderExpr("due_date ASC").Scan(ctx))
	require.Len(t, invoices, 2)

	successor := invoices[1]
	assert.True(t, successor.DueDate.Equal(date(2025, time.February, 5)), "due date %s", successor.DueDate)
	assert.Equal(t, common.InvoiceStatusUnpaid, successor.Status)
	assert.Equal(t, common.CreatedByMachine, successor.CreatedBy)
	assert.True(t, successor.TotalAmount.Equal(tenant.RentPrice))
	assert.NotEmpty(t, successor.InvoiceNo)

	// the tenant got notified once
	assert.Len(t, mail.sent, 1)
}

func TestRolloverIgnoresLongOverdueInvoices(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2023, time.June, 1), date(2026, time.June, 1))
	createTestInvoice(t, svc, landlord, tenant, date(2024, time.January, 5), 1)

	// a year later the stale invoice must not spawn back-dated successors
	result, err := svc.RunInvoiceRollover(ctx, date(2025, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
	assert.Equal(t, 0, result.Created)

	count, err := svc.DB.NewSelect().Model((*models.Invoice)(nil)).
		Where("tenant_id = ?", tenant.ID).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRolloverPicksUpRecentlyMissedInvoice(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)

	// due three days ago, still inside the look-back
	result, err := svc.RunInvoiceRollover(ctx, date(2025, time.January, 8))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Created)
}

func TestRolloverSkipsInvoiceOutsideWindow(t *testing.T) {
	svc, _, _ := testService(t)

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	createTestInvoice(t, svc, landlord, tenant, date(2025, time.March, 20), 1)

	result, err := svc.RunInvoiceRollover(context.Background(), date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Scanned)
}

func TestRolloverIsIdempotent(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)

	first, err := svc.RunInvoiceRollover(ctx, date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := svc.RunInvoiceRollover(ctx, date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.GreaterOrEqual(t, second.Skipped, 1)

	count, err := svc.DB.NewSelect().Model((*models.Invoice)(nil)).
		Where("tenant_id = ?", tenant.ID).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRolloverQuarterlyCycle(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleQuarterly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 3)

	result, err := svc.RunInvoiceRollover(ctx, date(2025, time.January, 1))
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	invoices := []models.Invoice{}
	require.NoError(t, svc.DB.NewSelect().Model(&invoices).
		Where("tenant_id = ?", tenant.ID).OrderExpr("due_date ASC").Scan(ctx))
	require.Len(t, invoices, 2)
	assert.True(t, invoices[1].DueDate.Equal(date(2025, time.April, 5)), "due date %s", invoices[1].DueDate)
	assert.Equal(t, 3, invoices[1].Qty)
}

func TestRolloverStopsAtContractEnd(t *testing.T) {
	svc, _, _ := testService(t)

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2025, time.January, 31))
	createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)

	// successor would fall due 2025-02-05, past the contract end
	result, err := svc.RunInvoiceRollover(context.Background(), date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)
}

func TestRolloverSkipsCancelledInvoices(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	invoice := createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)

	_, err := svc.CancelInvoice(ctx, invoice.ID, "ops@example.com")
	require.NoError(t, err)

	result, err := svc.RunInvoiceRollover(ctx, date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
}

func TestRolloverSkipsUnapprovedTenant(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	tenant.IsApproved = false
	require.NoError(t, svc.UpdateTenant(ctx, tenant))
	createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)

	result, err := svc.RunInvoiceRollover(ctx, date(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)
}
