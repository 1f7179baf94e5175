package service

import "errors"

var (
	ErrUnitOccupied        = errors.New("property unit already has an approved active tenant for this period")
	ErrInvoiceCancelled    = errors.New("invoice is cancelled and can not be paid")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrGatewayRejected     = errors.New("payment gateway rejected the request")
	ErrMissingSupplier     = errors.New("property unit has no supplier code")
	ErrAccountDeactivated  = errors.New("account deactivated")
	ErrSubscriptionExpired = errors.New("landlord subscription has expired")
)
