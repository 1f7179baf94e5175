package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
)

// DashboardSummary aggregates a landlord's portfolio for the overview page.
type DashboardSummary struct {
	Properties       int             `json:"properties"`
	Units            int             `json:"units"`
	ActiveTenants    int             `json:"active_tenants"`
	UnpaidInvoices   int             `json:"unpaid_invoices"`
	OverdueInvoices  int             `json:"overdue_invoices"`
	CollectedAmount  decimal.Decimal `json:"collected_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	PendingPayouts   int             `json:"pending_payouts"`
	FailedPayouts    int             `json:"failed_payouts"`
}

// CollectionMonth is one row of the rent collection report: how much was
// invoiced versus collected for invoices falling due in that month.
type CollectionMonth struct {
	Month     time.Time       `json:"month" bun:"month"`
	Invoiced  decimal.Decimal `json:"invoiced" bun:"invoiced"`
	Collected decimal.Decimal `json:"collected" bun:"collected"`
}

// CollectionSummaryFor reports invoiced vs collected totals per due month
// for the trailing months, newest first. Cancelled invoices are excluded.
func (svc *PmpService) CollectionSummaryFor(ctx context.Context, landlordId uuid.UUID, months int) ([]CollectionMonth, error) {
	if months <= 0 {
		months = 6
	}
	rows := []CollectionMonth{}

	err := svc.DB.NewSelect().Model((*models.Invoice)(nil)).
		ColumnExpr("date_trunc('month', due_date) AS month").
		ColumnExpr("COALESCE(SUM(total_amount - discount_amount), 0) AS invoiced").
		ColumnExpr("COALESCE(SUM(paid_amount), 0) AS collected").
		Where("landlord_id = ?", landlordId).
		Where("status != ?", common.InvoiceStatusCancelled).
		Where("due_date >= date_trunc('month', current_timestamp) - ?::interval", fmt.Sprintf("%d months", months-1)).
		GroupExpr("date_trunc('month', due_date)").
		OrderExpr("month DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (svc *PmpService) DashboardFor(ctx context.Context, landlordId uuid.UUID) (*DashboardSummary, error) {
	summary := &DashboardSummary{}
	var err error

	summary.Properties, err = svc.DB.NewSelect().Model((*models.Property)(nil)).
		Where("landlord_id = ?", landlordId).Count(ctx)
	if err != nil {
		return nil, err
	}

	summary.Units, err = svc.DB.NewSelect().Model((*models.PropertyUnit)(nil)).
		Join("JOIN properties AS p ON p.id = property_unit.property_id").
		Where("p.landlord_id = ?", landlordId).Count(ctx)
	if err != nil {
		return nil, err
	}

	summary.ActiveTenants, err = svc.DB.NewSelect().Model((*models.Tenant)(nil)).
		Join("JOIN property_units AS u ON u.id = tenant.property_unit_id").
		Join("JOIN properties AS p ON p.id = u.property_id").
		Where("p.landlord_id = ?", landlordId).
		Where("tenant.is_active = ?", true).
		Where("tenant.is_approved = ?", true).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	summary.UnpaidInvoices, err = svc.DB.NewSelect().Model((*models.Invoice)(nil)).
		Where("landlord_id = ?", landlordId).
		Where("status = ?", common.InvoiceStatusUnpaid).Count(ctx)
	if err != nil {
		return nil, err
	}

	summary.OverdueInvoices, err = svc.DB.NewSelect().Model((*models.Invoice)(nil)).
		Where("landlord_id = ?", landlordId).
		Where("status = ?", common.InvoiceStatusUnpaid).
		Where("due_date < current_timestamp").Count(ctx)
	if err != nil {
		return nil, err
	}

	if err := svc.DB.NewSelect().Model((*models.Invoice)(nil)).
		ColumnExpr("COALESCE(SUM(paid_amount), 0)").
		Where("landlord_id = ?", landlordId).
		Scan(ctx, &summary.CollectedAmount); err != nil {
		return nil, err
	}

	if err := svc.DB.NewSelect().Model((*models.Invoice)(nil)).
		ColumnExpr("COALESCE(SUM(due_amount), 0)").
		Where("landlord_id = ?", landlordId).
		Where("status = ?", common.InvoiceStatusUnpaid).
		Scan(ctx, &summary.OutstandingAmount); err != nil {
		return nil, err
	}

	summary.PendingPayouts, err = svc.DB.NewSelect().Model((*models.PaymentHistory)(nil)).
		Join("JOIN invoices AS i ON i.id = payment_history.invoice_id").
		Where("i.landlord_id = ?", landlordId).
		Where("payment_history.status = ?", common.PaymentStatusPaid).
		Where("payment_history.payout_status = ?", common.PayoutStatusPending).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	summary.FailedPayouts, err = svc.DB.NewSelect().Model((*models.PaymentHistory)(nil)).
		Join("JOIN invoices AS i ON i.id = payment_history.invoice_id").
		Where("i.landlord_id = ?", landlordId).
		Where("payment_history.payout_status = ?", common.PayoutStatusFailed).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	return summary, nil
}
