package controllers

import (
	"errors"
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

// TenantController : TenantController struct
type TenantController struct {
	svc *service.PmpService
}

func NewTenantController(svc *service.PmpService) *TenantController {
	return &TenantController{svc: svc}
}

type CreateTenantRequestBody struct {
	UserID         string  `json:"user_id" validate:"required"`
	PropertyUnitID string  `json:"property_unit_id" validate:"required"`
	TenantType     string  `json:"tenant_type"`
	CivilID        string  `json:"civil_id"`
	Nationality    string  `json:"nationality"`
	ContractStart  string  `json:"contract_start" validate:"required"`
	ContractEnd    string  `json:"contract_end" validate:"required"`
	ContractNumber string  `json:"contract_number" validate:"required"`
	RentPrice      string  `json:"rent_price" validate:"required"`
	RentPayDay     int     `json:"rent_pay_day"`
	PaymentCycle   string  `json:"payment_cycle" validate:"required,oneof=monthly quarterly yearly"`
}

func (controller *TenantController) CreateTenant(c echo.Context) error {
	var body CreateTenantRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load tenant request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	userId, err := uuid.Parse(body.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	unitId, err := uuid.Parse(body.PropertyUnitID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	contractStart, err := time.Parse("2006-01-02", body.ContractStart)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	contractEnd, err := time.Parse("2006-01-02", body.ContractEnd)
	if err != nil || contractEnd.Before(contractStart) {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	rentPrice, err := decimal.NewFromString(body.RentPrice)
	if err != nil || !rentPrice.IsPositive() {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	tenant := &models.Tenant{
		UserID:         userId,
		PropertyUnitID: unitId,
		TenantType:     body.TenantType,
		CivilID:        body.CivilID,
		Nationality:    body.Nationality,
		ContractStart:  contractStart,
		ContractEnd:    contractEnd,
		ContractNumber: body.ContractNumber,
		RentPrice:      rentPrice,
		RentPayDay:     body.RentPayDay,
		PaymentCycle:   body.PaymentCycle,
		IsActive:       true,
	}

	created, err := controller.svc.CreateTenant(c.Request().Context(), tenant)
	if err != nil {
		if errors.Is(err, service.ErrUnitOccupied) {
			return c.JSON(responses.UnitOccupiedError.HttpStatusCode, responses.UnitOccupiedError)
		}
		c.Logger().Errorf("Failed to create tenant: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, created)
}

func (controller *TenantController) GetTenant(c echo.Context) error {
	tenantId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	tenant, err := controller.svc.FindTenant(c.Request().Context(), tenantId)
	if err != nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	return c.JSON(http.StatusOK, tenant)
}

func (controller *TenantController) ListTenants(c echo.Context) error {
	unitId, err := uuid.Parse(c.Param("unit_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	page, size := pagination(c)
	result, err := controller.svc.TenantsFor(c.Request().Context(), unitId, c.QueryParam("active") == "true", page, size)
	if err != nil {
		c.Logger().Errorf("Failed to list tenants: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, result)
}

func (controller *TenantController) ApproveTenant(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if !hasPermission(c, controller.svc, user, common.PermissionTenantApprove) {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}
	tenantId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	tenant, err := controller.svc.ApproveTenant(c.Request().Context(), tenantId)
	if err != nil {
		if errors.Is(err, service.ErrUnitOccupied) {
			return c.JSON(responses.UnitOccupiedError.HttpStatusCode, responses.UnitOccupiedError)
		}
		c.Logger().Errorf("Failed to approve tenant %s: %v", tenantId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, tenant)
}

func (controller *TenantController) DeactivateTenant(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if !hasPermission(c, controller.svc, user, common.PermissionTenantDeactivate) {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}
	tenantId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if err := controller.svc.DeactivateTenant(c.Request().Context(), tenantId); err != nil {
		c.Logger().Errorf("Failed to deactivate tenant %s: %v", tenantId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
