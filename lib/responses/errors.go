package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "not found",
	HttpStatusCode: 404,
}

var PermissionDeniedError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "you do not have permission to perform this action",
	HttpStatusCode: 403,
}

var AccountDeactivatedError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "Account has been suspended. Please contact support for further assistance.",
	HttpStatusCode: 401,
}

var SubscriptionExpiredError = ErrorResponse{
	Error:          true,
	Code:           7,
	Message:        "subscription has expired. Please renew to continue",
	HttpStatusCode: 402,
}

var UnitOccupiedError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "property unit already has an approved active tenant for this period",
	HttpStatusCode: 409,
}

var InvoiceCancelledError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "invoice is cancelled and can not be paid",
	HttpStatusCode: 400,
}

var PaymentGatewayError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "payment gateway request failed. Please try again later",
	HttpStatusCode: 502,
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}
