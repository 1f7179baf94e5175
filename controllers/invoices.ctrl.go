package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/lib/responses"
	"github.com/rentstack/pmp/lib/service"
)

// InvoiceController : InvoiceController struct
type InvoiceController struct {
	svc *service.PmpService
}

func NewInvoiceController(svc *service.PmpService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

type InvoiceItemBody struct {
	Name      string `json:"name" validate:"required"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price" validate:"required"`
}

type CreateInvoiceRequestBody struct {
	TenantID       string            `json:"tenant_id" validate:"required"`
	TotalAmount    string            `json:"total_amount" validate:"required"`
	DiscountAmount string            `json:"discount_amount"`
	Currency       string            `json:"currency"`
	DueDate        string            `json:"due_date" validate:"required"`
	Description    string            `json:"description"`
	Items          []InvoiceItemBody `json:"items"`
}

func (controller *InvoiceController) CreateInvoice(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if !hasPermission(c, controller.svc, user, common.PermissionInvoiceCreate) {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}

	var body CreateInvoiceRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	tenantId, err := uuid.Parse(body.TenantID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	totalAmount, err := decimal.NewFromString(body.TotalAmount)
	if err != nil || !totalAmount.IsPositive() {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	discountAmount := decimal.Zero
	if body.DiscountAmount != "" {
		discountAmount, err = decimal.NewFromString(body.DiscountAmount)
		if err != nil || discountAmount.IsNegative() {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
	}
	dueDate, err := time.Parse("2006-01-02", body.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	tenant, err := controller.svc.FindTenant(c.Request().Context(), tenantId)
	if err != nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}

	invoice := &models.Invoice{
		LandlordID:     user.LandlordID,
		TenantID:       tenant.ID,
		TotalAmount:    totalAmount,
		DiscountAmount: discountAmount,
		Currency:       body.Currency,
		DueDate:        dueDate,
		Description:    body.Description,
		Qty:            common.CycleMonths(tenant.PaymentCycle),
		CreatedBy:      user.Email,
	}
	for _, item := range body.Items {
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		qty := item.Qty
		if qty < 1 {
			qty = 1
		}
		invoice.Items = append(invoice.Items, &models.InvoiceItem{
			Name:      item.Name,
			Qty:       qty,
			UnitPrice: unitPrice,
			Amount:    unitPrice.Mul(decimal.NewFromInt(int64(qty))),
		})
	}

	created, err := controller.svc.CreateInvoice(c.Request().Context(), invoice)
	if err != nil {
		c.Logger().Errorf("Failed to create invoice: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, created)
}

func (controller *InvoiceController) GetInvoice(c echo.Context) error {
	invoiceId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	invoice, err := controller.svc.FindInvoice(c.Request().Context(), invoiceId)
	if err != nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	return c.JSON(http.StatusOK, invoice)
}

func (controller *InvoiceController) ListInvoices(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	filter := service.InvoiceFilter{Status: c.QueryParam("status")}
	if user.IsLandlord {
		filter.LandlordID = user.LandlordID
	} else if tenantId := c.QueryParam("tenant_id"); tenantId != "" {
		id, err := uuid.Parse(tenantId)
		if err != nil {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		filter.TenantID = id
	}

	page, size := pagination(c)
	result, err := controller.svc.InvoicesFor(c.Request().Context(), filter, page, size)
	if err != nil {
		c.Logger().Errorf("Failed to list invoices: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, result)
}

func (controller *InvoiceController) CancelInvoice(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if !hasPermission(c, controller.svc, user, common.PermissionInvoiceCancel) {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}
	invoiceId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.CancelInvoice(c.Request().Context(), invoiceId, user.Email)
	if err != nil {
		c.Logger().Errorf("Failed to cancel invoice %s: %v", invoiceId, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	return c.JSON(http.StatusOK, invoice)
}
