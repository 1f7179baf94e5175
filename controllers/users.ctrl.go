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

// UserController : UserController struct
type UserController struct {
	svc *service.PmpService
}

func NewUserController(svc *service.PmpService) *UserController {
	return &UserController{svc: svc}
}

type CreateUserRequestBody struct {
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required,min=8"`
	RoleID    string `json:"role_id"`
}

func (controller *UserController) CreateUser(c echo.Context) error {
	var body CreateUserRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	user := &models.User{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Phone:     body.Phone,
		IsActive:  true,
	}
	if body.RoleID != "" {
		roleId, err := uuid.Parse(body.RoleID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		user.RoleID = roleId
	}

	user, err := controller.svc.CreateUser(c.Request().Context(), user, body.Password)
	if err != nil {
		c.Logger().Errorf("Failed to create user: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, user)
}

func (controller *UserController) GetMe(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	return c.JSON(http.StatusOK, user)
}

type UpdateUserRequestBody struct {
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	Language  string `json:"language"`
}

func (controller *UserController) UpdateMe(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	var body UpdateUserRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if body.FirstName != "" {
		user.FirstName = body.FirstName
	}
	if body.LastName != "" {
		user.LastName = body.LastName
	}
	if body.Phone != "" {
		user.Phone = body.Phone
	}
	if body.Gender != "" {
		user.Gender = body.Gender
	}

	if err := controller.svc.UpdateUser(c.Request().Context(), user); err != nil {
		c.Logger().Errorf("Failed to update user %s: %v", user.ID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, user)
}

type ChangePasswordRequestBody struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (controller *UserController) ChangePassword(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	var body ChangePasswordRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	ctx := service.WithClientInfo(c.Request().Context(), service.ClientInfo{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err := controller.svc.ChangePassword(ctx, user, body.OldPassword, body.NewPassword); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (controller *UserController) ListUsers(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	if !hasPermission(c, controller.svc, user, common.PermissionUserList) {
		return c.JSON(http.StatusForbidden, responses.PermissionDeniedError)
	}

	page, size := pagination(c)
	result, err := controller.svc.UsersFor(c.Request().Context(), user.LandlordID, c.QueryParam("search"), page, size)
	if err != nil {
		c.Logger().Errorf("Failed to list users: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, result)
}

func (controller *UserController) SecurityLogs(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	page, size := pagination(c)
	result, err := controller.svc.SecurityLogsFor(c.Request().Context(), user.ID, page, size)
	if err != nil {
		c.Logger().Errorf("Failed to list security logs: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, result)
}
