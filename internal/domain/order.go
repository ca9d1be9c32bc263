package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one cart line as sent to the orders endpoint.
type OrderItem struct {
	ProductID ProductID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// OrderRequest is the checkout payload. Contact fields arrive trimmed but
// otherwise unvalidated; the server owns validation.
type OrderRequest struct {
	CustomerName string      `json:"customerName"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Items        []OrderItem `json:"items"`
}

// OrderResponse is the success body of the orders endpoint.
type OrderResponse struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SummaryLine is one priced line of a stored order.
type SummaryLine struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderSummary is the stored order enriched with line totals, used for the
// confirmation email.
type OrderSummary struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customerName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	Items        []SummaryLine   `json:"items"`
	Total        decimal.Decimal `json:"total"`
}
