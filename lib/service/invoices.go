package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/mailer"
	"github.com/rentstack/pmp/rabbitmq"
)

// GenerateInvoiceNo assigns the next sequential rent-invoice number for a
// landlord. Numbers are padded to five digits: inv-rent-00001.
func (svc *PmpService) GenerateInvoiceNo(ctx context.Context, tx bun.IDB, landlordId uuid.UUID) (string, error) {
	count, err := tx.NewSelect().Model((*models.Invoice)(nil)).
		Where("landlord_id = ?", landlordId).
		Count(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("inv-rent-%05d", count+1), nil
}

// CreateInvoice stores a new invoice inside a transaction so the invoice
// number stays sequential per landlord under concurrent writers.
func (svc *PmpService) CreateInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if invoice.InvoiceNo == "" {
			invoiceNo, err := svc.GenerateInvoiceNo(ctx, tx, invoice.LandlordID)
			if err != nil {
				return err
			}
			invoice.InvoiceNo = invoiceNo
		}
		if invoice.Currency == "" {
			invoice.Currency = svc.Config.DefaultCurrency
		}
		if invoice.Status == "" {
			invoice.Status = common.InvoiceStatusUnpaid
		}
		invoice.DueAmount = invoice.TotalAmount.Sub(invoice.DiscountAmount).Sub(invoice.PaidAmount)

		if _, err := tx.NewInsert().Model(invoice).Exec(ctx); err != nil {
			return err
		}
		for _, item := range invoice.Items {
			item.InvoiceID = invoice.ID
			if _, err := tx.NewInsert().Model(item).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (svc *PmpService) FindInvoice(ctx context.Context, invoiceId uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice

	err := svc.DB.NewSelect().Model(&invoice).
		Relation("Items").
		Relation("Tenant").
		Where("invoice.id = ?", invoiceId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// InvoiceFilter narrows InvoicesFor. Zero values mean "any".
type InvoiceFilter struct {
	LandlordID uuid.UUID
	TenantID   uuid.UUID
	Status     string
}

func (svc *PmpService) InvoicesFor(ctx context.Context, filter InvoiceFilter, page, size int) (*ListResult, error) {
	invoices := []models.Invoice{}

	query := svc.DB.NewSelect().Model(&invoices)
	if filter.LandlordID != uuid.Nil {
		query.Where("landlord_id = ?", filter.LandlordID)
	}
	if filter.TenantID != uuid.Nil {
		query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Status != "" {
		query.Where("status = ?", filter.Status)
	}
	total, err := query.OrderExpr("due_date DESC").Limit(size).Offset((page - 1) * size).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Page: page, Size: size, Items: invoices}, nil
}

func (svc *PmpService) UpdateInvoice(ctx context.Context, invoice *models.Invoice) error {
	invoice.DueAmount = invoice.TotalAmount.Sub(invoice.DiscountAmount).Sub(invoice.PaidAmount)
	_, err := svc.DB.NewUpdate().Model(invoice).WherePK().Exec(ctx)
	return err
}

// CancelInvoice is terminal. Paid invoices can not be cancelled.
func (svc *PmpService) CancelInvoice(ctx context.Context, invoiceId uuid.UUID, updatedBy string) (*models.Invoice, error) {
	invoice, err := svc.FindInvoice(ctx, invoiceId)
	if err != nil {
		return nil, err
	}
	if invoice.IsPaid() {
		return nil, fmt.Errorf("invoice %s is already paid", invoice.InvoiceNo)
	}
	invoice.Status = common.InvoiceStatusCancelled
	invoice.UpdatedBy = updatedBy
	_, err = svc.DB.NewUpdate().Model(invoice).
		Column("status", "updated_by", "updated_at").
		WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// notifyInvoiceCreated mails the tenant and publishes the invoice.created
// event. Failures are logged, never propagated: notification must not roll
// back an invoice.
func (svc *PmpService) notifyInvoiceCreated(ctx context.Context, invoice *models.Invoice, tenantUser *models.User) {
	if tenantUser != nil {
		body, err := mailer.RenderTemplate("invoice_created.html", map[string]interface{}{
			"Name":      tenantUser.FullName(),
			"InvoiceNo": invoice.InvoiceNo,
			"Amount":    invoice.DueAmount.StringFixed(3),
			"Currency":  invoice.Currency,
			"DueDate":   invoice.DueDate.Format("2006-01-02"),
		})
		if err != nil {
			svc.Logger.Errorf("Failed to render invoice mail for %s: %v", invoice.InvoiceNo, err)
		} else {
			svc.sendEmail(ctx, tenantUser.Email, fmt.Sprintf("Invoice %s", invoice.InvoiceNo), body)
		}
	}
	svc.publishEvent(ctx, rabbitmq.EventInvoiceCreated, invoice)
}

// settleInvoice marks an invoice paid after a successful payment and keeps
// the amount columns consistent.
func (svc *PmpService) settleInvoice(ctx context.Context, tx bun.IDB, invoice *models.Invoice, amount decimal.Decimal) error {
	invoice.PaidAmount = invoice.PaidAmount.Add(amount)
	invoice.DueAmount = invoice.TotalAmount.Sub(invoice.DiscountAmount).Sub(invoice.PaidAmount)
	if invoice.DueAmount.IsNegative() {
		invoice.DueAmount = decimal.Zero
	}
	invoice.Status = common.InvoiceStatusPaid
	invoice.PaymentDate = models.NowNullTime()
	invoice.UpdatedBy = common.CreatedByMachine

	_, err := tx.NewUpdate().Model(invoice).
		Column("paid_amount", "due_amount", "status", "payment_date", "updated_by", "updated_at").
		WherePK().Exec(ctx)
	return err
}
