package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoiceCreatedTemplate(t *testing.T) {
	body, err := RenderTemplate("invoice_created.html", map[string]interface{}{
		"Name":      "Sara Tenant",
		"InvoiceNo": "inv-rent-00042",
		"Amount":    "350.000",
		"Currency":  "KWD",
		"DueDate":   "2025-02-05",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Sara Tenant")
	assert.Contains(t, body, "inv-rent-00042")
	assert.Contains(t, body, "350.000")
	assert.Contains(t, body, "2025-02-05")
}

func TestRenderInvoicePaidTemplate(t *testing.T) {
	body, err := RenderTemplate("invoice_paid.html", map[string]interface{}{
		"Name":        "Sara Tenant",
		"InvoiceNo":   "inv-rent-00042",
		"PaymentDate": "2025-01-20",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "inv-rent-00042")
	assert.Contains(t, body, "2025-01-20")
}

func TestRenderTicketCreatedTemplate(t *testing.T) {
	body, err := RenderTemplate("ticket_created.html", map[string]interface{}{
		"Name":    "Sara Tenant",
		"Subject": "AC is broken",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "AC is broken")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := RenderTemplate("does_not_exist.html", nil)
	assert.Error(t, err)
}
