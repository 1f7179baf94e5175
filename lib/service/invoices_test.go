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

func TestInvoiceNumbersAreSequentialPerLandlord(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))

	first := createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)
	second := createTestInvoice(t, svc, landlord, tenant, date(2025, time.February, 5), 1)

	assert.Equal(t, "inv-rent-00001", first.InvoiceNo)
	assert.Equal(t, "inv-rent-00002", second.InvoiceNo)

	// a second landlord starts its own sequence
	otherLandlord, err := svc.CreateLandlord(ctx, &models.Landlord{Title: "Other Co"})
	require.NoError(t, err)
	otherInvoice, err := svc.CreateInvoice(ctx, &models.Invoice{
		LandlordID:  otherLandlord.ID,
		TenantID:    tenant.ID,
		TotalAmount: decimal.NewFromInt(100),
		DueDate:     date(2025, time.January, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, "inv-rent-00001", otherInvoice.InvoiceNo)
}

func TestCreateInvoiceComputesDueAmount(t *testing.T) {
	svc, _, _ := testService(t)

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))

	invoice, err := svc.CreateInvoice(context.Background(), &models.Invoice{
		LandlordID:     landlord.ID,
		TenantID:       tenant.ID,
		TotalAmount:    decimal.NewFromInt(350),
		DiscountAmount: decimal.NewFromInt(50),
		DueDate:        date(2025, time.January, 5),
	})
	require.NoError(t, err)
	assert.True(t, invoice.DueAmount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, common.InvoiceStatusUnpaid, invoice.Status)
	assert.Equal(t, "KWD", invoice.Currency)
}

func TestCreateInvoiceWithItems(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))

	invoice, err := svc.CreateInvoice(ctx, &models.Invoice{
		LandlordID:  landlord.ID,
		TenantID:    tenant.ID,
		TotalAmount: decimal.NewFromInt(400),
		DueDate:     date(2025, time.January, 5),
		Items: []*models.InvoiceItem{
			{Name: "Rent", Qty: 1, UnitPrice: decimal.NewFromInt(350), Amount: decimal.NewFromInt(350)},
			{Name: "Parking", Qty: 1, UnitPrice: decimal.NewFromInt(50), Amount: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	reloaded, err := svc.FindInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 2)
}

func TestCancelPaidInvoiceRejected(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	user, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	invoice := createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)

	payment, err := svc.InitiatePayment(ctx, user, invoice.ID)
	require.NoError(t, err)
	_, err = svc.ProcessWebhook(ctx, payment.GatewayID, "Paid", nil)
	require.NoError(t, err)

	_, err = svc.CancelInvoice(ctx, invoice.ID, "ops@example.com")
	assert.Error(t, err)
}

func TestInvoiceListFilters(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, tenant, _, landlord := createTestLease(t, svc, common.PaymentCycleMonthly,
		date(2024, time.June, 1), date(2026, time.June, 1))
	createTestInvoice(t, svc, landlord, tenant, date(2025, time.January, 5), 1)
	cancelled := createTestInvoice(t, svc, landlord, tenant, date(2025, time.February, 5), 1)
	_, err := svc.CancelInvoice(ctx, cancelled.ID, "ops@example.com")
	require.NoError(t, err)

	unpaid, err := svc.InvoicesFor(ctx, InvoiceFilter{LandlordID: landlord.ID, Status: common.InvoiceStatusUnpaid}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, unpaid.Total)

	all, err := svc.InvoicesFor(ctx, InvoiceFilter{LandlordID: landlord.ID}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
}
