package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue all background work runs on.
	QueueDefault = "default"

	// TaskTypeSendEmail delivers one templated mail.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeInvoiceRollover runs the recurring invoice generator.
	TaskTypeInvoiceRollover = "invoice:rollover"
	// TaskTypePayoutReconcile runs the payout reconciliation pass.
	TaskTypePayoutReconcile = "payout:reconcile"
)

// SendEmailPayload describes one mail to deliver. The body is rendered
// before enqueueing so the worker does not need template context.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs the mail delivery task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data, asynq.Queue(QueueDefault)), nil
}

// NewInvoiceRolloverTask constructs the scheduled rollover task.
func NewInvoiceRolloverTask() *asynq.Task {
	return asynq.NewTask(TaskTypeInvoiceRollover, nil, asynq.Queue(QueueDefault))
}

// NewPayoutReconcileTask constructs the scheduled payout task.
func NewPayoutReconcileTask() *asynq.Task {
	return asynq.NewTask(TaskTypePayoutReconcile, nil, asynq.Queue(QueueDefault))
}
