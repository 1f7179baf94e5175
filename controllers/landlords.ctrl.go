package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/lib/responses"
	"github.com/rentstack/pmp/lib/service"
)

// LandlordController : LandlordController struct
//
// Landlord management is an operator surface and sits behind the admin
// token, not user auth.
type LandlordController struct {
	svc *service.PmpService
}

func NewLandlordController(svc *service.PmpService) *LandlordController {
	return &LandlordController{svc: svc}
}

type CreateLandlordRequestBody struct {
	Title string `json:"title" validate:"required"`
}

func (controller *LandlordController) CreateLandlord(c echo.Context) error {
	var body CreateLandlordRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	landlord, err := controller.svc.CreateLandlord(c.Request().Context(), &models.Landlord{Title: body.Title})
	if err != nil {
		c.Logger().Errorf("Failed to create landlord: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, landlord)
}

func (controller *LandlordController) GetLandlord(c echo.Context) error {
	landlordId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	landlord, err := controller.svc.FindLandlord(c.Request().Context(), landlordId)
	if err != nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	return c.JSON(http.StatusOK, landlord)
}

func (controller *LandlordController) ListLandlords(c echo.Context) error {
	page, size := pagination(c)
	result, err := controller.svc.LandlordsFor(c.Request().Context(), c.QueryParam("search"), page, size)
	if err != nil {
		c.Logger().Errorf("Failed to list landlords: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, result)
}
