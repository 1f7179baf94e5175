package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/gateway"
	"github.com/rentstack/pmp/rabbitmq"
)

// PayoutResult summarizes one run of the payout reconciliation job.
type PayoutResult struct {
	Scanned   int
	Succeeded int
	Retried   int
	Exhausted int
}

// RunPayoutReconciliation pushes collected rent to the supplier account of
// each settled payment. Every record is committed on its own: a gateway
// failure on one payout never holds up or rolls back the others.
//
// Failures are retried on later runs with an exponential backoff persisted
// as next_payout_attempt_at. Once a record exhausts the attempt cap its
// payout status goes terminally failed and an operator has to step in.
func (svc *PmpService) RunPayoutReconciliation(ctx context.Context, now time.Time) (*PayoutResult, error) {
	payments := []models.PaymentHistory{}
	err := svc.DB.NewSelect().Model(&payments).
		Where("payment_history.status = ?", common.PaymentStatusPaid).
		Where("payment_history.payout_status = ?", common.PayoutStatusPending).
		Where("payment_history.payout_attempts < ?", svc.Config.MaxPayoutAttempts).
		Where("payment_history.next_payout_attempt_at IS NULL OR payment_history.next_payout_attempt_at <= ?", now).
		OrderExpr("payment_history.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := &PayoutResult{Scanned: len(payments)}
	for i := range payments {
		payment := &payments[i]
		if err := svc.reconcilePayout(ctx, now, payment); err != nil {
			svc.recordPayoutFailure(ctx, now, payment, err)
			if payment.PayoutStatus == common.PayoutStatusFailed {
				result.Exhausted++
			} else {
				result.Retried++
			}
			continue
		}
		result.Succeeded++
	}
	svc.Logger.Infof("Payout reconciliation done: scanned=%d succeeded=%d retried=%d exhausted=%d",
		result.Scanned, result.Succeeded, result.Retried, result.Exhausted)
	return result, nil
}

func (svc *PmpService) reconcilePayout(ctx context.Context, now time.Time, payment *models.PaymentHistory) error {
	unit, err := svc.payoutUnit(ctx, payment)
	if err != nil {
		return err
	}
	if unit.SupplierCode == "" {
		return ErrMissingSupplier
	}

	invoice, err := svc.FindInvoice(ctx, payment.InvoiceID)
	if err != nil {
		return err
	}

	resp, err := svc.Gateway.Payout(ctx, &gateway.PayoutRequest{
		SupplierCode: unit.SupplierCode,
		Amount:       payment.Amount.InexactFloat64(),
		CurrencyIso:  payment.Currency,
		Comments:     fmt.Sprintf("rent payout for invoice %s", invoice.InvoiceNo),
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess {
		return fmt.Errorf("gateway declined payout: %s", resp.Message)
	}

	payment.PayoutStatus = common.PayoutStatusSuccess
	payment.PayoutError = ""
	payment.NextPayoutAttemptAt = bun.NullTime{}
	_, err = svc.DB.NewUpdate().Model(payment).
		Column("payout_status", "payout_error", "next_payout_attempt_at", "updated_at").
		WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	svc.publishEvent(ctx, rabbitmq.EventPayoutSucceeded, payment)
	return nil
}

// payoutUnit resolves the unit whose supplier account receives the funds.
// Payments recorded with a unit use it directly; older rows fall back to
// the invoice -> tenant -> unit chain.
func (svc *PmpService) payoutUnit(ctx context.Context, payment *models.PaymentHistory) (*models.PropertyUnit, error) {
	if payment.PropertyUnitID != uuid.Nil {
		return svc.FindPropertyUnit(ctx, payment.PropertyUnitID)
	}
	invoice, err := svc.FindInvoice(ctx, payment.InvoiceID)
	if err != nil {
		return nil, err
	}
	unit := svc.supplierUnitForInvoice(ctx, invoice)
	if unit == nil {
		return nil, fmt.Errorf("no property unit resolvable for payment %s", payment.ID)
	}
	return unit, nil
}

// recordPayoutFailure commits the failed attempt right away so partial
// progress survives a crashed run. The error column always holds the most
// recent failure.
func (svc *PmpService) recordPayoutFailure(ctx context.Context, now time.Time, payment *models.PaymentHistory, cause error) {
	payment.PayoutAttempts++
	payment.PayoutError = cause.Error()

	if payment.PayoutAttempts >= svc.Config.MaxPayoutAttempts {
		payment.PayoutStatus = common.PayoutStatusFailed
		payment.NextPayoutAttemptAt = bun.NullTime{}
		svc.Logger.Errorf("Payout for payment %s exhausted %d attempts: %v",
			payment.ID, payment.PayoutAttempts, cause)
	} else {
		payment.NextPayoutAttemptAt = bun.NullTime{Time: now.Add(svc.payoutBackoff(payment.PayoutAttempts))}
		svc.Logger.Warnf("Payout for payment %s failed (attempt %d/%d), next attempt at %s: %v",
			payment.ID, payment.PayoutAttempts, svc.Config.MaxPayoutAttempts,
			payment.NextPayoutAttemptAt.Time.Format(time.RFC3339), cause)
	}

	_, err := svc.DB.NewUpdate().Model(payment).
		Column("payout_status", "payout_error", "payout_attempts", "next_payout_attempt_at", "updated_at").
		WherePK().Exec(ctx)
	if err != nil {
		svc.Logger.Errorf("Failed to record payout failure for payment %s: %v", payment.ID, err)
		return
	}
	if payment.PayoutStatus == common.PayoutStatusFailed {
		svc.publishEvent(ctx, rabbitmq.EventPayoutFailed, payment)
	}
}

// payoutBackoff returns the delay before the given retry attempt, doubling
// from the configured initial interval up to the configured cap. Jitter is
// left to the cron cadence.
func (svc *PmpService) payoutBackoff(attempt int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(svc.Config.PayoutBackoffInitialSeconds) * time.Second
	b.MaxInterval = time.Duration(svc.Config.PayoutBackoffMaxSeconds) * time.Second
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	b.Reset()

	delay := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		delay = b.NextBackOff()
	}
	return delay
}
