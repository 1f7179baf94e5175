package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentstack/pmp/lib/responses"
	"github.com/rentstack/pmp/lib/service"
)

// AuthController : AuthController struct
type AuthController struct {
	svc *service.PmpService
}

func NewAuthController(svc *service.PmpService) *AuthController {
	return &AuthController{svc: svc}
}

type AuthRequestBody struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
}
type AuthResponseBody struct {
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

// Auth : Auth Controller
func (controller *AuthController) Auth(c echo.Context) error {
	var body AuthRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load auth request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	ctx := service.WithClientInfo(c.Request().Context(), service.ClientInfo{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	accessToken, refreshToken, err := controller.svc.GenerateToken(ctx, body.Email, body.Password, body.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionExpired):
			return c.JSON(responses.SubscriptionExpiredError.HttpStatusCode, responses.SubscriptionExpiredError)
		case errors.Is(err, service.ErrAccountDeactivated):
			return c.JSON(responses.AccountDeactivatedError.HttpStatusCode, responses.AccountDeactivatedError)
		}
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	return c.JSON(http.StatusOK, &AuthResponseBody{
		RefreshToken: refreshToken,
		AccessToken:  accessToken,
	})
}

// Logout audits the end of a session. The access token stays valid until
// expiry; dropping it is the client's job.
func (controller *AuthController) Logout(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	ctx := service.WithClientInfo(c.Request().Context(), service.ClientInfo{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	controller.svc.Logout(ctx, user)
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
