package controllers

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rentstack/pmp/db/models"
	"github.com/rentstack/pmp/lib/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// currentUser loads the authenticated user set by the token middleware.
func currentUser(c echo.Context, svc *service.PmpService) (*models.User, error) {
	userId, ok := c.Get("UserID").(uuid.UUID)
	if !ok {
		return nil, echo.ErrUnauthorized
	}
	return svc.FindUser(c.Request().Context(), userId)
}

// hasPermission checks the caller's role grant for an action. A failed
// lookup denies rather than letting the request through.
func hasPermission(c echo.Context, svc *service.PmpService, user *models.User, action string) bool {
	granted, err := svc.HasPermission(c.Request().Context(), user, action)
	if err != nil {
		c.Logger().Errorf("Failed to check permission %s for user %s: %v", action, user.ID, err)
		return false
	}
	return granted
}

func pagination(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.QueryParam("size"))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
