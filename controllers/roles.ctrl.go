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

// RoleController : RoleController struct
type RoleController struct {
	svc *service.PmpService
}

func NewRoleController(svc *service.PmpService) *RoleController {
	return &RoleController{svc: svc}
}

type CreateRoleRequestBody struct {
	Name          string   `json:"name" validate:"required"`
	Desc          string   `json:"desc"`
	PermissionIDs []string `json:"permission_ids"`
}

func (controller *RoleController) CreateRole(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if !hasPermission(c, controller.svc, user, common.PermissionRoleCreate) {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}

	var body CreateRoleRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	permissionIds := make([]uuid.UUID, 0, len(body.PermissionIDs))
	for _, raw := range body.PermissionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		permissionIds = append(permissionIds, id)
	}

	role := &models.Role{
		Name:       body.Name,
		Desc:       body.Desc,
		IsActive:   true,
		LandlordID: user.LandlordID,
	}
	created, err := controller.svc.CreateRole(c.Request().Context(), role, permissionIds)
	if err != nil {
		c.Logger().Errorf("Failed to create role: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, created)
}

func (controller *RoleController) ListRoles(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	page, size := pagination(c)
	result, err := controller.svc.RolesFor(c.Request().Context(), user.LandlordID, page, size)
	if err != nil {
		c.Logger().Errorf("Failed to list roles: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, result)
}

func (controller *RoleController) ListPermissions(c echo.Context) error {
	permissions, err := controller.svc.Permissions(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Failed to list permissions: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, permissions)
}

func (controller *RoleController) ListRolePermissions(c echo.Context) error {
	roleId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	permissions, err := controller.svc.PermissionsForRole(c.Request().Context(), roleId)
	if err != nil {
		c.Logger().Errorf("Failed to list role permissions: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, permissions)
}
