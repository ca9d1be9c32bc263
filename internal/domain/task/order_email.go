package task

// OrderEmailTask asks a worker to send the confirmation email for an order
// that was just accepted.
type OrderEmailTask struct {
	OrderID int64 `json:"order_id"`
}

func (t *OrderEmailTask) TaskType() string {
	return "OrderEmailTask"
}

func (t *OrderEmailTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
