package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/lib/responses"
	"github.com/rentstack/pmp/lib/service"
)

// PropertyController : PropertyController struct
type PropertyController struct {
	svc *service.PmpService
}

func NewPropertyController(svc *service.PmpService) *PropertyController {
	return &PropertyController{svc: svc}
}

func (controller *PropertyController) CreateProperty(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if !hasPermission(c, controller.svc, user, common.PermissionPropertyCreate) {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}

	var property models.Property
	if err := c.Bind(&property); err != nil {
		c.Logger().Errorf("Failed to load property request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	property.ID = uuid.Nil
	property.LandlordID = user.LandlordID

	created, err := controller.svc.CreateProperty(c.Request().Context(), &property)
	if err != nil {
		c.Logger().Errorf("Failed to create property: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, created)
}

func (controller *PropertyController) GetProperty(c echo.Context) error {
	propertyId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	property, err := controller.svc.FindProperty(c.Request().Context(), propertyId)
	if err != nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	return c.JSON(http.StatusOK, property)
}

func (controller *PropertyController) ListProperties(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	page, size := pagination(c)
	result, err := controller.svc.PropertiesFor(c.Request().Context(), user.LandlordID, c.QueryParam("search"), page, size)
	if err != nil {
		c.Logger().Errorf("Failed to list properties: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, result)
}

func (controller *PropertyController) UpdateProperty(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	propertyId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	property, err := controller.svc.FindProperty(c.Request().Context(), propertyId)
	if err != nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	if property.LandlordID != user.LandlordID {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}

	if err := c.Bind(property); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	property.ID = propertyId
	property.LandlordID = user.LandlordID

	if err := controller.svc.UpdateProperty(c.Request().Context(), property); err != nil {
		c.Logger().Errorf("Failed to update property %s: %v", propertyId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, property)
}

func (controller *PropertyController) CreateUnit(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	propertyId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	property, err := controller.svc.FindProperty(c.Request().Context(), propertyId)
	if err != nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	if property.LandlordID != user.LandlordID {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}

	var unit models.PropertyUnit
	if err := c.Bind(&unit); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	unit.ID = uuid.Nil
	unit.PropertyID = propertyId

	created, err := controller.svc.CreatePropertyUnit(c.Request().Context(), &unit)
	if err != nil {
		c.Logger().Errorf("Failed to create property unit: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, created)
}

func (controller *PropertyController) ListUnits(c echo.Context) error {
	propertyId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	page, size := pagination(c)
	result, err := controller.svc.PropertyUnitsFor(c.Request().Context(), propertyId, page, size)
	if err != nil {
		c.Logger().Errorf("Failed to list property units: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, result)
}

func (controller *PropertyController) UpdateUnit(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	unitId, err := uuid.Parse(c.Param("unit_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	unit, err := controller.svc.FindPropertyUnit(c.Request().Context(), unitId)
	if err != nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	property, err := controller.svc.FindProperty(c.Request().Context(), unit.PropertyID)
	if err != nil || property.LandlordID != user.LandlordID {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}

	if err := c.Bind(unit); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	unit.ID = unitId
	unit.PropertyID = property.ID

	if err := controller.svc.UpdatePropertyUnit(c.Request().Context(), unit); err != nil {
		c.Logger().Errorf("Failed to update property unit %s: %v", unitId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, unit)
}
