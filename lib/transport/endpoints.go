package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentstack/pmp/controllers"
	"github.com/rentstack/pmp/lib/service"
	"github.com/rentstack/pmp/storage"
)

// RegisterEndpoints wires the full REST surface under /api/v1. The secured
// group carries the JWT middleware; the payment webhook and callback stay
// public because the gateway calls them without credentials.
func RegisterEndpoints(svc *service.PmpService, store storage.Storage, e *echo.Echo, secured *echo.Group, securedWithStrictRateLimit *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, adminMw echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	// Public endpoints for authentication and account creation
	authCtrl := controllers.NewAuthController(svc)
	e.POST("/api/v1/auth", authCtrl.Auth, logMw)
	secured.POST("/api/v1/auth/logout", authCtrl.Logout)
	if svc.Config.AllowAccountCreation {
		e.POST("/api/v1/users", controllers.NewUserController(svc).CreateUser, strictRateLimitMiddleware, logMw)
	}

	// Gateway-facing payment legs, unauthenticated
	paymentCtrl := controllers.NewPaymentController(svc)
	e.POST("/api/v1/payment/webhook", paymentCtrl.PaymentWebhook, logMw)
	e.GET("/api/v1/payment/callback", paymentCtrl.PaymentCallback, logMw)
	e.GET("/api/v1/payment/error", paymentCtrl.PaymentError, logMw)

	userCtrl := controllers.NewUserController(svc)
	secured.GET("/api/v1/users/me", userCtrl.GetMe)
	secured.PUT("/api/v1/users/me", userCtrl.UpdateMe)
	secured.POST("/api/v1/users/me/password", userCtrl.ChangePassword)
	secured.GET("/api/v1/users", userCtrl.ListUsers)
	secured.GET("/api/v1/users/me/security-logs", userCtrl.SecurityLogs)

	propertyCtrl := controllers.NewPropertyController(svc)
	secured.POST("/api/v1/properties", propertyCtrl.CreateProperty)
	secured.GET("/api/v1/properties", propertyCtrl.ListProperties)
	secured.GET("/api/v1/properties/:id", propertyCtrl.GetProperty)
	secured.PUT("/api/v1/properties/:id", propertyCtrl.UpdateProperty)
	secured.POST("/api/v1/properties/:id/units", propertyCtrl.CreateUnit)
	secured.GET("/api/v1/properties/:id/units", propertyCtrl.ListUnits)
	secured.PUT("/api/v1/properties/:id/units/:unit_id", propertyCtrl.UpdateUnit)

	tenantCtrl := controllers.NewTenantController(svc)
	secured.POST("/api/v1/tenants", tenantCtrl.CreateTenant)
	secured.GET("/api/v1/tenants/:id", tenantCtrl.GetTenant)
	secured.GET("/api/v1/units/:unit_id/tenants", tenantCtrl.ListTenants)
	secured.POST("/api/v1/tenants/:id/approve", tenantCtrl.ApproveTenant)
	secured.POST("/api/v1/tenants/:id/deactivate", tenantCtrl.DeactivateTenant)

	invoiceCtrl := controllers.NewInvoiceController(svc)
	secured.POST("/api/v1/invoices", invoiceCtrl.CreateInvoice)
	secured.GET("/api/v1/invoices", invoiceCtrl.ListInvoices)
	secured.GET("/api/v1/invoices/:id", invoiceCtrl.GetInvoice)
	secured.POST("/api/v1/invoices/:id/cancel", invoiceCtrl.CancelInvoice)

	securedWithStrictRateLimit.POST("/api/v1/payments", paymentCtrl.InitiatePayment)
	secured.GET("/api/v1/payments", paymentCtrl.ListPayments)

	ticketCtrl := controllers.NewSupportTicketController(svc, store)
	secured.POST("/api/v1/tickets", ticketCtrl.CreateTicket)
	secured.GET("/api/v1/tickets", ticketCtrl.ListTickets)
	secured.GET("/api/v1/tickets/:id", ticketCtrl.GetTicket)
	secured.PUT("/api/v1/tickets/:id/status", ticketCtrl.UpdateTicketStatus)

	roleCtrl := controllers.NewRoleController(svc)
	secured.POST("/api/v1/roles", roleCtrl.CreateRole)
	secured.GET("/api/v1/roles", roleCtrl.ListRoles)
	secured.GET("/api/v1/roles/:id/permissions", roleCtrl.ListRolePermissions)
	cacheMw := createCacheClient().Middleware()
	secured.GET("/api/v1/permissions", roleCtrl.ListPermissions, cacheMw)

	dashboardCtrl := controllers.NewDashboardController(svc)
	secured.GET("/api/v1/dashboard", dashboardCtrl.Dashboard)
	secured.GET("/api/v1/reports/summary", dashboardCtrl.CollectionSummary, cacheMw)

	secured.POST("/api/v1/uploads", controllers.NewUploadController(svc, store).Upload)

	// Operator endpoints behind the admin token
	if svc.Config.AdminToken != "" {
		landlordCtrl := controllers.NewLandlordController(svc)
		e.POST("/api/v1/admin/landlords", landlordCtrl.CreateLandlord, strictRateLimitMiddleware, adminMw)
		e.GET("/api/v1/admin/landlords", landlordCtrl.ListLandlords, adminMw)
		e.GET("/api/v1/admin/landlords/:id", landlordCtrl.GetLandlord, adminMw)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
