package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/gateway"
	"github.com/rentstack/pmp/lib"
)

// mockGateway is a scriptable PaymentClient. Zero value approves
// everything.
type mockGateway struct {
	sendPaymentErr   error
	paymentStatus    string
	payoutErr        error
	payoutDeclined   bool
	payoutCalls      int
	lastPayout       *gateway.PayoutRequest
	nextGatewayInvID int64
}

func (m *mockGateway) SendPayment(ctx context.Context, req *gateway.SendPaymentRequest) (*gateway.SendPaymentResponse, error) {
	if m.sendPaymentErr != nil {
		return nil, m.sendPaymentErr
	}
	m.nextGatewayInvID++
	resp := &gateway.SendPaymentResponse{IsSuccess: true}
	resp.Data.InvoiceId = m.nextGatewayInvID
	resp.Data.InvoiceURL = fmt.Sprintf("https://gateway.test/pay/%d", m.nextGatewayInvID)
	return resp, nil
}

func (m *mockGateway) GetPaymentStatus(ctx context.Context, paymentId string) (*gateway.PaymentStatusResponse, error) {
	resp := &gateway.PaymentStatusResponse{IsSuccess: true}
	resp.Data.InvoiceStatus = m.paymentStatus
	return resp, nil
}

func (m *mockGateway) Payout(ctx context.Context, req *gateway.PayoutRequest) (*gateway.PayoutResponse, error) {
	m.payoutCalls++
	m.lastPayout = req
	if m.payoutErr != nil {
		return nil, m.payoutErr
	}
	if m.payoutDeclined {
		return &gateway.PayoutResponse{IsSuccess: false, Message: "supplier blocked"}, nil
	}
	return &gateway.PayoutResponse{IsSuccess: true}, nil
}

// mockMailer records sent mail instead of talking SMTP.
type mockMailer struct {
	sent []string
}

func (m *mockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.sent = append(m.sent, to+": "+subject)
	return nil
}

func testService(t *testing.T) (*PmpService, *mockGateway, *mockMailer) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New()))
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	dbConn := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { dbConn.Close() })

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Landlord)(nil),
		(*models.Role)(nil),
		(*models.Permission)(nil),
		(*models.RolePermission)(nil),
		(*models.User)(nil),
		(*models.Property)(nil),
		(*models.PropertyUnit)(nil),
		(*models.Tenant)(nil),
		(*models.Invoice)(nil),
		(*models.InvoiceItem)(nil),
		(*models.PaymentHistory)(nil),
		(*models.SupportTicket)(nil),
		(*models.SecurityLog)(nil),
	} {
		require.NoError(t, dbConn.ResetModel(ctx, model))
	}

	gw := &mockGateway{paymentStatus: gateway.InvoiceStatusPaid}
	mail := &mockMailer{}
	svc := &PmpService{
		Config: &Config{
			JWTSecret:                   []byte("test-secret"),
			JWTAccessTokenExpiry:        3600,
			JWTRefreshTokenExpiry:       3600,
			DefaultCurrency:             "KWD",
			FrontendBaseUrl:             "http://frontend.test",
			BackendBaseUrl:              "http://backend.test",
			RolloverWindowDays:          7,
			MaxPayoutAttempts:           3,
			PayoutBackoffInitialSeconds: 3600,
			PayoutBackoffMaxSeconds:     86400,
		},
		DB:      dbConn,
		Logger:  lib.Logger(""),
		Gateway: gw,
		Mailer:  mail,
	}
	return svc, gw, mail
}

// fixture helpers

func createTestLease(t *testing.T, svc *PmpService, paymentCycle string, contractStart, contractEnd time.Time) (*models.User, *models.Tenant, *models.PropertyUnit, *models.Landlord) {
	t.Helper()
	ctx := context.Background()

	landlord, err := svc.CreateLandlord(ctx, &models.Landlord{Title: "Test Properties Co"})
	require.NoError(t, err)

	user, err := svc.CreateUser(ctx, &models.User{
		FirstName: "Sara",
		LastName:  "Tenant",
		Email:     fmt.Sprintf("tenant-%s@example.com", uuid.New().String()[:8]),
		IsActive:  true,
	}, "super-secret-pw")
	require.NoError(t, err)

	property, err := svc.CreateProperty(ctx, &models.Property{
		LandlordID: landlord.ID,
		Name:       "Salmiya Tower",
		City:       "Salmiya",
	})
	require.NoError(t, err)

	unit, err := svc.CreatePropertyUnit(ctx, &models.PropertyUnit{
		PropertyID:   property.ID,
		UnitNo:       "12A",
		Rent:         decimal.NewFromInt(350),
		SupplierCode: "SUP-001",
	})
	require.NoError(t, err)

	tenant, err := svc.CreateTenant(ctx, &models.Tenant{
		UserID:         user.ID,
		PropertyUnitID: unit.ID,
		ContractStart:  contractStart,
		ContractEnd:    contractEnd,
		ContractNumber: "CN-100",
		RentPrice:      decimal.NewFromInt(350),
		RentPayDay:     5,
		PaymentCycle:   paymentCycle,
		IsActive:       true,
	})
	require.NoError(t, err)
	tenant.IsApproved = true
	require.NoError(t, svc.UpdateTenant(ctx, tenant))

	return user, tenant, unit, landlord
}

func createTestInvoice(t *testing.T, svc *PmpService, landlord *models.Landlord, tenant *models.Tenant, dueDate time.Time, qty int) *models.Invoice {
	t.Helper()
	invoice, err := svc.CreateInvoice(context.Background(), &models.Invoice{
		LandlordID:  landlord.ID,
		TenantID:    tenant.ID,
		TotalAmount: tenant.RentPrice,
		Status:      common.InvoiceStatusUnpaid,
		InvoiceDate: dueDate.AddDate(0, 0, -14),
		DueDate:     dueDate,
		Qty:         qty,
		CreatedBy:   common.CreatedByMachine,
	})
	require.NoError(t, err)
	return invoice
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
