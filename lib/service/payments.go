package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/gateway"
	"github.com/rentstack/pmp/mailer"
	"github.com/rentstack/pmp/rabbitmq"
)

// InitiatePayment creates (or refreshes) a hosted payment link for an
// invoice. If a pending payment already exists for the invoice it is
// reused and its gateway link refreshed instead of inserting a second row.
func (svc *PmpService) InitiatePayment(ctx context.Context, user *models.User, invoiceId uuid.UUID) (*models.PaymentHistory, error) {
	invoice, err := svc.FindInvoice(ctx, invoiceId)
	if err != nil {
		return nil, err
	}
	if invoice.Status == common.InvoiceStatusCancelled {
		return nil, ErrInvoiceCancelled
	}
	if invoice.IsPaid() {
		return nil, fmt.Errorf("invoice %s is already paid", invoice.InvoiceNo)
	}

	payment, err := svc.pendingPaymentForInvoice(ctx, invoice.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	req := &gateway.SendPaymentRequest{
		CustomerName:       user.FullName(),
		CustomerEmail:      user.Email,
		CustomerReference:  invoice.ID.String(),
		NotificationOption: "LNK",
		CallBackUrl:        svc.Config.BackendBaseUrl + "/api/v1/payment/callback",
		ErrorUrl:           svc.Config.BackendBaseUrl + "/api/v1/payment/error",
		WebhookUrl:         svc.Config.BackendBaseUrl + "/api/v1/payment/webhook",
		Language:           "en",
		CurrencyIso:        invoice.Currency,
		InvoiceValue:       invoice.DueAmount.InexactFloat64(),
	}
	for _, item := range invoice.Items {
		req.InvoiceItems = append(req.InvoiceItems, gateway.InvoiceItem{
			ItemName:  item.Name,
			Quantity:  item.Qty,
			UnitPrice: item.UnitPrice.InexactFloat64(),
		})
	}
	if unit := svc.supplierUnitForInvoice(ctx, invoice); unit != nil && unit.SupplierCode != "" {
		req.Suppliers = []gateway.Supplier{{
			SupplierCode: unit.SupplierCode,
			InvoiceShare: invoice.DueAmount.InexactFloat64(),
		}}
	}

	resp, err := svc.Gateway.SendPayment(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess {
		svc.Logger.Errorf("Gateway rejected payment for invoice %s: %s", invoice.InvoiceNo, resp.Message)
		return nil, ErrGatewayRejected
	}

	if payment == nil {
		payment = &models.PaymentHistory{
			UserID:      user.ID,
			InvoiceID:   invoice.ID,
			Amount:      invoice.DueAmount,
			Currency:    invoice.Currency,
			PaymentType: common.PaymentTypeRent,
			Status:      common.PaymentStatusPending,
		}
		if unit := svc.supplierUnitForInvoice(ctx, invoice); unit != nil {
			payment.PropertyUnitID = unit.ID
		}
	}
	payment.GatewayID = strconv.FormatInt(resp.Data.InvoiceId, 10)
	payment.PaymentURL = resp.Data.InvoiceURL
	payment.Amount = invoice.DueAmount

	if payment.CreatedAt.IsZero() {
		_, err = svc.DB.NewInsert().Model(payment).Exec(ctx)
	} else {
		_, err = svc.DB.NewUpdate().Model(payment).
			Column("gateway_id", "payment_url", "amount", "updated_at").
			WherePK().Exec(ctx)
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (svc *PmpService) pendingPaymentForInvoice(ctx context.Context, invoiceId uuid.UUID) (*models.PaymentHistory, error) {
	var payment models.PaymentHistory
	err := svc.DB.NewSelect().Model(&payment).
		Where("invoice_id = ?", invoiceId).
		Where("status = ?", common.PaymentStatusPending).
		OrderExpr("created_at DESC").Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// supplierUnitForInvoice walks invoice -> tenant -> unit. A nil result
// means the funds can not be routed to a supplier; the payment still goes
// through and payout reconciliation reports the gap later.
func (svc *PmpService) supplierUnitForInvoice(ctx context.Context, invoice *models.Invoice) *models.PropertyUnit {
	if invoice.Tenant == nil {
		if invoice.TenantID == uuid.Nil {
			return nil
		}
		tenant, err := svc.FindTenant(ctx, invoice.TenantID)
		if err != nil {
			return nil
		}
		invoice.Tenant = tenant
	}
	if invoice.Tenant.PropertyUnit != nil {
		return invoice.Tenant.PropertyUnit
	}
	unit, err := svc.FindPropertyUnit(ctx, invoice.Tenant.PropertyUnitID)
	if err != nil {
		return nil
	}
	invoice.Tenant.PropertyUnit = unit
	return unit
}

// ProcessPaymentCallback is the user-facing return leg: the frontend
// hands over the gateway payment id and we poll the gateway for the
// authoritative status.
func (svc *PmpService) ProcessPaymentCallback(ctx context.Context, paymentId string) (*models.PaymentHistory, error) {
	resp, err := svc.Gateway.GetPaymentStatus(ctx, paymentId)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess {
		return nil, ErrGatewayRejected
	}
	return svc.applyGatewayStatus(ctx, strconv.FormatInt(resp.Data.InvoiceId, 10), resp.Data.InvoiceStatus, nil)
}

// ProcessWebhook is the server-to-server leg. The raw payload is kept on
// the payment row for audit. Deliveries are retried by the gateway, so
// the transition must be idempotent: settlement side effects fire only on
// the first pending -> paid transition.
func (svc *PmpService) ProcessWebhook(ctx context.Context, gatewayId, gatewayStatus string, payload map[string]interface{}) (*models.PaymentHistory, error) {
	return svc.applyGatewayStatus(ctx, gatewayId, gatewayStatus, payload)
}

func (svc *PmpService) applyGatewayStatus(ctx context.Context, gatewayId, gatewayStatus string, payload map[string]interface{}) (*models.PaymentHistory, error) {
	var payment models.PaymentHistory
	err := svc.DB.NewSelect().Model(&payment).
		Where("gateway_id = ?", gatewayId).
		Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	status := mapGatewayStatus(gatewayStatus)
	if payload != nil {
		payment.Payload = payload
	}

	// Settled payments never regress. A late "Expired" delivery after a
	// successful charge is recorded in the payload only.
	if payment.IsSettled() || status == common.PaymentStatusPending {
		if payload != nil {
			_, err = svc.DB.NewUpdate().Model(&payment).
				Column("payload", "updated_at").WherePK().Exec(ctx)
			if err != nil {
				return nil, err
			}
		}
		return &payment, nil
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		payment.Status = status
		if _, err := tx.NewUpdate().Model(&payment).
			Column("status", "payload", "updated_at").
			WherePK().Exec(ctx); err != nil {
			return err
		}
		if status != common.PaymentStatusPaid {
			return nil
		}
		var invoice models.Invoice
		if err := tx.NewSelect().Model(&invoice).
			Where("id = ?", payment.InvoiceID).Limit(1).Scan(ctx); err != nil {
			return err
		}
		return svc.settleInvoice(ctx, tx, &invoice, payment.Amount)
	})
	if err != nil {
		return nil, err
	}

	if status == common.PaymentStatusPaid {
		svc.notifyPaymentSettled(ctx, &payment)
	}
	return &payment, nil
}

// mapGatewayStatus folds the gateway vocabulary onto ours. Anything we do
// not recognize stays pending until a recognizable delivery arrives.
func mapGatewayStatus(gatewayStatus string) string {
	switch gatewayStatus {
	case gateway.InvoiceStatusPaid:
		return common.PaymentStatusPaid
	case gateway.InvoiceStatusFailed, gateway.InvoiceStatusExpired:
		return common.PaymentStatusFailed
	default:
		return common.PaymentStatusPending
	}
}

func (svc *PmpService) notifyPaymentSettled(ctx context.Context, payment *models.PaymentHistory) {
	invoice, err := svc.FindInvoice(ctx, payment.InvoiceID)
	if err != nil {
		svc.Logger.Errorf("Failed to load invoice for settled payment %s: %v", payment.ID, err)
		return
	}
	user, err := svc.FindUser(ctx, payment.UserID)
	if err == nil {
		body, rerr := mailer.RenderTemplate("invoice_paid.html", map[string]interface{}{
			"Name":        user.FullName(),
			"InvoiceNo":   invoice.InvoiceNo,
			"PaymentDate": invoice.PaymentDate.Time.Format("2006-01-02"),
		})
		if rerr != nil {
			svc.Logger.Errorf("Failed to render payment mail for %s: %v", invoice.InvoiceNo, rerr)
		} else {
			svc.sendEmail(ctx, user.Email, fmt.Sprintf("Payment received for invoice %s", invoice.InvoiceNo), body)
		}
	}
	svc.publishEvent(ctx, rabbitmq.EventPaymentSettled, payment)
	svc.publishEvent(ctx, rabbitmq.EventInvoiceSettled, invoice)
}

// PaymentsFor lists a user's payment history newest first.
func (svc *PmpService) PaymentsFor(ctx context.Context, userId uuid.UUID, page, size int) (*ListResult, error) {
	payments := []models.PaymentHistory{}

	query := svc.DB.NewSelect().Model(&payments).Where("user_id = ?", userId)
	total, err := query.OrderExpr("created_at DESC").Limit(size).Offset((page - 1) * size).ScanAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Page: page, Size: size, Items: payments}, nil
}

func (svc *PmpService) FindPayment(ctx context.Context, paymentId uuid.UUID) (*models.PaymentHistory, error) {
	var payment models.PaymentHistory
	err := svc.DB.NewSelect().Model(&payment).
		Where("id = ?", paymentId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}
