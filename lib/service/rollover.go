package service

import (
	"context"
	"time"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
)

// RolloverResult summarizes one run of the invoice rollover job.
type RolloverResult struct {
	Scanned int
	Created int
	Skipped int
	Failed  int
}

// RunInvoiceRollover creates the successor invoice for every active lease
// whose current invoice falls due within the configured window. Each
// invoice is processed independently; one bad record never aborts the run.
//
// The window looks the same number of days backwards, so a run the cron
// missed is picked up the next day but long-settled history is never
// re-rolled into back-dated successors.
//
// The job is idempotent: a successor is only created if no invoice with
// the computed next due date already exists for the tenant.
func (svc *PmpService) RunInvoiceRollover(ctx context.Context, now time.Time) (*RolloverResult, error) {
	windowStart := now.AddDate(0, 0, -svc.Config.RolloverWindowDays)
	windowEnd := now.AddDate(0, 0, svc.Config.RolloverWindowDays)

	invoices := []models.Invoice{}
	err := svc.DB.NewSelect().Model(&invoices).
		Relation("Tenant").
		Relation("Tenant.User").
		Where("invoice.status != ?", common.InvoiceStatusCancelled).
		Where("invoice.due_date >= ?", windowStart).
		Where("invoice.due_date <= ?", windowEnd).
		Where("invoice.tenant_id IS NOT NULL").
		OrderExpr("invoice.due_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := &RolloverResult{Scanned: len(invoices)}
	for i := range invoices {
		created, err := svc.rolloverInvoice(ctx, now, &invoices[i])
		if err != nil {
			result.Failed++
			svc.Logger.Errorf("Rollover failed for invoice %s: %v", invoices[i].InvoiceNo, err)
			continue
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}
	svc.Logger.Infof("Invoice rollover done: scanned=%d created=%d skipped=%d failed=%d",
		result.Scanned, result.Created, result.Skipped, result.Failed)
	return result, nil
}

func (svc *PmpService) rolloverInvoice(ctx context.Context, now time.Time, invoice *models.Invoice) (bool, error) {
	tenant := invoice.Tenant
	if tenant == nil || !tenant.IsActive || !tenant.IsApproved {
		return false, nil
	}

	nextDueDate := invoice.NextDueDate()
	// Leases are not billed past their contract end.
	if !tenant.InContractWindow(nextDueDate) {
		return false, nil
	}

	exists, err := svc.DB.NewSelect().Model((*models.Invoice)(nil)).
		Where("tenant_id = ?", tenant.ID).
		Where("due_date = ?", nextDueDate).
		Where("status != ?", common.InvoiceStatusCancelled).
		Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	months := common.CycleMonths(tenant.PaymentCycle)
	successor := &models.Invoice{
		LandlordID:  invoice.LandlordID,
		TenantID:    tenant.ID,
		TotalAmount: tenant.RentPrice,
		DueAmount:   tenant.RentPrice,
		Currency:    invoice.Currency,
		Status:      common.InvoiceStatusUnpaid,
		InvoiceDate: now,
		DueDate:     nextDueDate,
		Description: invoice.Description,
		Qty:         months,
		CreatedBy:   common.CreatedByMachine,
	}
	if _, err := svc.CreateInvoice(ctx, successor); err != nil {
		return false, err
	}

	svc.notifyInvoiceCreated(ctx, successor, tenant.User)
	return true, nil
}
