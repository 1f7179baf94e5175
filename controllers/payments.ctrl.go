package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rentstack/pmp/common"
	"github.com/rentstack/pmp/lib/responses"
	"github.com/rentstack/pmp/lib/service"
)

// PaymentController : PaymentController struct
type PaymentController struct {
	svc *service.PmpService
}

func NewPaymentController(svc *service.PmpService) *PaymentController {
	return &PaymentController{svc: svc}
}

type InitiatePaymentRequestBody struct {
	InvoiceID string `json:"invoice_id" validate:"required"`
}

// InitiatePayment creates a hosted payment link for an invoice and returns
// the payment record with the gateway URL the frontend redirects to.
func (controller *PaymentController) InitiatePayment(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	var body InitiatePaymentRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load payment request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	invoiceId, err := uuid.Parse(body.InvoiceID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	payment, err := controller.svc.InitiatePayment(c.Request().Context(), user, invoiceId)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvoiceNotFound):
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		case errors.Is(err, service.ErrInvoiceCancelled):
			return c.JSON(responses.InvoiceCancelledError.HttpStatusCode, responses.InvoiceCancelledError)
		case errors.Is(err, service.ErrGatewayRejected):
			return c.JSON(responses.PaymentGatewayError.HttpStatusCode, responses.PaymentGatewayError)
		}
		c.Logger().Errorf("Failed to initiate payment for invoice %s: %v", invoiceId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, payment)
}

// PaymentCallback is where the gateway redirects the payer's browser
// after checkout. The payment is confirmed against the gateway before
// the browser is bounced to the frontend result page, so the frontend
// never has to trust the redirect alone.
func (controller *PaymentController) PaymentCallback(c echo.Context) error {
	paymentId := c.QueryParam("paymentId")
	if paymentId == "" {
		return controller.redirectToResult(c, "failed", "missing paymentId")
	}

	payment, err := controller.svc.ProcessPaymentCallback(c.Request().Context(), paymentId)
	if err != nil {
		if !errors.Is(err, service.ErrPaymentNotFound) {
			c.Logger().Errorf("Failed to process payment callback %s: %v", paymentId, err)
		}
		return controller.redirectToResult(c, "failed", "payment could not be confirmed")
	}
	if payment.Status == common.PaymentStatusPaid {
		return controller.redirectToResult(c, "success", "")
	}
	return controller.redirectToResult(c, "failed", "payment not completed")
}

// PaymentError is the gateway's error-redirect leg. Nothing is settled
// here; the browser is sent to the frontend failure page with the reason.
func (controller *PaymentController) PaymentError(c echo.Context) error {
	reason := c.QueryParam("reason")
	if reason == "" {
		reason = "payment was declined or cancelled"
	}
	c.Logger().Infof("Payment error redirect for paymentId %s: %s", c.QueryParam("paymentId"), reason)
	return controller.redirectToResult(c, "failed", reason)
}

func (controller *PaymentController) redirectToResult(c echo.Context, result, reason string) error {
	target := controller.svc.Config.FrontendBaseUrl + "/payment/" + result
	if reason != "" {
		target += "?reason=" + url.QueryEscape(reason)
	}
	return c.Redirect(http.StatusFound, target)
}

type WebhookRequestBody struct {
	InvoiceId     int64                  `json:"InvoiceId"`
	InvoiceStatus string                 `json:"InvoiceStatus"`
	Data          map[string]interface{} `json:"Data"`
}

// PaymentWebhook is the unauthenticated server-to-server delivery from the
// gateway. It always answers 200 for known payments so the gateway stops
// redelivering.
func (controller *PaymentController) PaymentWebhook(c echo.Context) error {
	var body WebhookRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load webhook body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if body.InvoiceId == 0 {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	payload := body.Data
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["InvoiceStatus"] = body.InvoiceStatus

	payment, err := controller.svc.ProcessWebhook(c.Request().Context(),
		strconv.FormatInt(body.InvoiceId, 10), body.InvoiceStatus, payload)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to process webhook for gateway invoice %d: %v", body.InvoiceId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "status": payment.Status})
}

func (controller *PaymentController) ListPayments(c echo.Context) error {
	user, err := currentUser(c, controller.svc)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	page, size := pagination(c)
	result, err := controller.svc.PaymentsFor(c.Request().Context(), user.ID, page, size)
	if err != nil {
		c.Logger().Errorf("Failed to list payments: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, result)
}
