package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/lib/responses"
	"github.com/rentstack/pmp/lib/service"
)

// DashboardController : DashboardController struct
type DashboardController struct {
	svc *service.PmpService
}

func NewDashboardController(svc *service.PmpService) *DashboardController {
	return &DashboardController{svc: svc}
}

func (controller *DashboardController) Dashboard(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if !hasPermission(c, controller.svc, user, common.PermissionDashboardView) {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}

	summary, err := controller.svc.DashboardFor(c.Request().Context(), user.LandlordID)
	if err != nil {
		c.Logger().Errorf("Failed to build dashboard: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, summary)
}

// CollectionSummary is the invoiced-vs-collected report per due month.
func (controller *DashboardController) CollectionSummary(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if !hasPermission(c, controller.svc, user, common.PermissionReportView) {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}

	months, _ := strconv.Atoi(c.QueryParam("months"))
	rows, err := controller.svc.CollectionSummaryFor(c.Request().Context(), user.LandlordID, months)
	if err != nil {
		c.Logger().Errorf("Failed to build collection summary: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, rows)
}
