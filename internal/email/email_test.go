package email

import (
	"testing"

	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildOrderConfirmation(t *testing.T) {
	summary := &domain.OrderSummary{
		ID:           42,
		CustomerName: "Dana",
		Email:        "dana@example.com",
		Items: []domain.SummaryLine{
			{Name: "Chlorine 4L", Price: decimal.NewFromFloat(9.5), Quantity: 3, LineTotal: decimal.NewFromFloat(28.5)},
			{Name: "Latex Gloves - Medium (Blue)", Price: decimal.NewFromFloat(6.25), Quantity: 1, LineTotal: decimal.NewFromFloat(6.25)},
		},
		Total: decimal.NewFromFloat(34.75),
	}

	body := BuildOrderConfirmation(summary)

	assert.Contains(t, body, "Hello Dana,")
	assert.Contains(t, body, "Order ID: 42")
	assert.Contains(t, body, "Payment method: Cash on Delivery")
	assert.Contains(t, body, "• 3 × Chlorine 4L – $28.50")
	assert.Contains(t, body, "• 1 × Latex Gloves - Medium (Blue) – $6.25")
	assert.Contains(t, body, "Total (COD): $34.75")
	assert.Contains(t, body, "Ziad's Supplies Team")
}

func TestBuildOrderConfirmation_FallbackName(t *testing.T) {
	summary := &domain.OrderSummary{ID: 7, Total: decimal.Zero}

	body := BuildOrderConfirmation(summary)

	assert.Contains(t, body, "Hello Customer,")
	assert.Contains(t, body, "Total (COD): $0.00")
	assert.NotContains(t, body, "Items:")
}
