package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/lib/responses"
	"github.com/rentstack/pmp/lib/service"
	"github.com/rentstack/pmp/storage"
)

// SupportTicketController : SupportTicketController struct
type SupportTicketController struct {
	svc     *service.PmpService
	storage storage.Storage
}

func NewSupportTicketController(svc *service.PmpService, store storage.Storage) *SupportTicketController {
	return &SupportTicketController{svc: svc, storage: store}
}

// CreateTicket accepts multipart form data so an attachment can ride along
// with the ticket fields.
func (controller *SupportTicketController) CreateTicket(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	subject := c.FormValue("subject")
	if subject == "" {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	ticket := &models.SupportTicket{
		UserID:      user.ID,
		LandlordID:  user.LandlordID,
		Subject:     subject,
		Description: c.FormValue("description"),
		Priority:    c.FormValue("priority"),
	}

	if file, err := c.FormFile("attachment"); err == nil && controller.storage != nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		defer src.Close()

		url, err := controller.storage.Save(c.Request().Context(),
			file.Filename, file.Header.Get("Content-Type"), src)
		if err != nil {
			c.Logger().Errorf("Failed to store ticket attachment: %v", err)
			return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
		}
		ticket.Attachment = url
	}

	created, err := controller.svc.CreateSupportTicket(c.Request().Context(), ticket)
	if err != nil {
		c.Logger().Errorf("Failed to create support ticket: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, created)
}

func (controller *SupportTicketController) GetTicket(c echo.Context) error {
	ticketId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	ticket, err := controller.svc.FindSupportTicket(c.Request().Context(), ticketId)
	if err != nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	return c.JSON(http.StatusOK, ticket)
}

func (controller *SupportTicketController) ListTickets(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	page, size := pagination(c)
	result, err := controller.svc.SupportTicketsFor(c.Request().Context(), user.LandlordID, c.QueryParam("status"), page, size)
	if err != nil {
		c.Logger().Errorf("Failed to list support tickets: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, result)
}

type UpdateTicketStatusRequestBody struct {
	Status string `json:"status" validate:"required,oneof=open in_progress closed"`
}

func (controller *SupportTicketController) UpdateTicketStatus(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if !hasPermission(c, controller.svc, user, common.PermissionTicketUpdate) {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}
	ticketId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body UpdateTicketStatusRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	ticket, err := controller.svc.UpdateSupportTicketStatus(c.Request().Context(), ticketId, body.Status)
	if err != nil {
		c.Logger().Errorf("Failed to update ticket %s: %v", ticketId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, ticket)
}
