package task

// EmailRetryTask re-queues a confirmation email whose delivery failed.
type EmailRetryTask struct {
	OrderID    int64  `json:"order_id"`
	RetryCount int    `json:"retry_count"`
	Error      string `json:"error"`
}

func (t *EmailRetryTask) TaskType() string {
	return "EmailRetryTask"
}

func (t *EmailRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
