package common

const (
	InvoiceStatusUnpaid    = "unpaid"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	PaymentTypeRent         = "rent"
	PaymentTypeSubscription = "subscription"

	PayoutStatusPending = "pending"
	PayoutStatusSuccess = "success"
	PayoutStatusFailed  = "failed"

	PaymentCycleMonthly   = "monthly"
	PaymentCycleQuarterly = "quarterly"
	PaymentCycleYearly    = "yearly"

	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusClosed     = "closed"

	SecurityEventLoginSuccess    = "login_success"
	SecurityEventLoginFailed     = "login_failed"
	SecurityEventLogout          = "logout"
	SecurityEventPasswordChanged = "password_changed"

	CreatedByMachine = "machine"
)

// Permission actions checked against a staff user's role grants. Landlord
// owners bypass the check entirely.
const (
	PermissionUserList         = "user:list"
	PermissionPropertyCreate   = "property:create"
	PermissionTenantApprove    = "tenant:approve"
	PermissionTenantDeactivate = "tenant:deactivate"
	PermissionInvoiceCreate    = "invoice:create"
	PermissionInvoiceCancel    = "invoice:cancel"
	PermissionRoleCreate       = "role:create"
	PermissionTicketUpdate     = "ticket:update"
	PermissionDashboardView    = "dashboard:view"
	PermissionReportView       = "report:view"
)

// Billing-cycle lengths as stored in an invoice's qty column, in months.
const (
	CycleMonthsMonthly   = 1
	CycleMonthsQuarterly = 3
	CycleMonthsYearly    = 12
)

// CycleMonths maps a tenant payment cycle onto the number of months one
// invoice covers. Unknown cycles bill monthly.
func CycleMonths(paymentCycle string) int {
	switch paymentCycle {
	case PaymentCycleQuarterly:
		return CycleMonthsQuarterly
	case PaymentCycleYearly:
		return CycleMonthsYearly
	default:
		return CycleMonthsMonthly
	}
}
