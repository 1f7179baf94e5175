package gateway

import (
	"context"
)

// Gateway invoice status vocabulary as returned by GetPaymentStatus and
// webhook deliveries.
const (
	InvoiceStatusPaid    = "Paid"
	InvoiceStatusFailed  = "Failed"
	InvoiceStatusExpired = "Expired"
	InvoiceStatusPending = "Pending"
)

// PaymentClient is the outbound payment-gateway surface the service
// depends on. The real implementation talks to a MyFatoorah-compatible
// REST API; tests use an in-memory fake.
type PaymentClient interface {
	// SendPayment creates a hosted payment link for an invoice,
	// optionally routing a share to a supplier account.
	SendPayment(ctx context.Context, req *SendPaymentRequest) (*SendPaymentResponse, error)
	// GetPaymentStatus polls the gateway for the state of a payment.
	GetPaymentStatus(ctx context.Context, paymentId string) (*PaymentStatusResponse, error)
	// Payout transfers collected funds to a supplier account.
	Payout(ctx context.Context, req *PayoutRequest) (*PayoutResponse, error)
}

type InvoiceItem struct {
	ItemName  string  `json:"ItemName"`
	Quantity  int     `json:"Quantity"`
	UnitPrice float64 `json:"UnitPrice"`
}

type Supplier struct {
	SupplierCode string  `json:"SupplierCode"`
	InvoiceShare float64 `json:"InvoiceShare"`
}

type SendPaymentRequest struct {
	CustomerName      string        `json:"CustomerName"`
	CustomerEmail     string        `json:"CustomerEmail"`
	CustomerReference string        `json:"CustomerReference"`
	UserDefinedField  string        `json:"UserDefinedField,omitempty"`
	NotificationOption string       `json:"NotificationOption"`
	CallBackUrl       string        `json:"CallBackUrl"`
	ErrorUrl          string        `json:"ErrorUrl"`
	WebhookUrl        string        `json:"WebhookUrl,omitempty"`
	Language          string        `json:"Language"`
	CurrencyIso       string        `json:"CurrencyIso,omitempty"`
	InvoiceValue      float64       `json:"InvoiceValue"`
	InvoiceItems      []InvoiceItem `json:"InvoiceItems,omitempty"`
	Suppliers         []Supplier    `json:"Suppliers,omitempty"`
}

type SendPaymentResponse struct {
	IsSuccess bool   `json:"IsSuccess"`
	Message   string `json:"Message"`
	Data      struct {
		InvoiceId  int64  `json:"InvoiceId"`
		InvoiceURL string `json:"InvoiceURL"`
	} `json:"Data"`
}

type PaymentStatusResponse struct {
	IsSuccess bool   `json:"IsSuccess"`
	Message   string `json:"Message"`
	Data      struct {
		InvoiceId         int64   `json:"InvoiceId"`
		InvoiceStatus     string  `json:"InvoiceStatus"`
		InvoiceValue      float64 `json:"InvoiceValue"`
		CustomerReference string  `json:"CustomerReference"`
	} `json:"Data"`
}

type PayoutRequest struct {
	SupplierCode string  `json:"SupplierCode"`
	Amount       float64 `json:"Amount"`
	CurrencyIso  string  `json:"CurrencyIso"`
	Comments     string  `json:"Comments,omitempty"`
}

type PayoutResponse struct {
	IsSuccess bool   `json:"IsSuccess"`
	Message   string `json:"Message"`
}
