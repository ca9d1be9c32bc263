package view

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/MichelSalibaa/ZiadSupplies/internal/cart"
	"github.com/MichelSalibaa/ZiadSupplies/internal/catalog"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

type cartRow struct {
	ProductID domain.ProductID
	Name      string
	Summary   string
	Quantity  int
}

type cartViewData struct {
	Rows  []cartRow
	Total string
}

var cartTmpl = template.Must(template.New("cart").Parse(`<ul id="cart-items">
{{if not .Rows}}<li class="cart-empty">Your cart is empty.</li>
{{else}}{{range .Rows}}<li class="cart-row">
<div class="cart-line-info">
<span class="cart-product-name">{{.Name}}</span>
<span class="cart-line-summary">{{.Summary}}</span>
</div>
<form method="post" action="/cart/update" class="cart-qty">
<input type="hidden" name="productId" value="{{.ProductID}}">
<input type="number" name="quantity" min="1" value="{{.Quantity}}" aria-label="Quantity">
<button type="submit" class="update-item">Update</button>
</form>
<form method="post" action="/cart/remove">
<input type="hidden" name="productId" value="{{.ProductID}}">
<button type="submit" class="remove-item">Remove</button>
</form>
</li>
{{end}}{{end}}</ul>
<p class="cart-total-row">Total (COD): $<span id="cart-total">{{.Total}}</span></p>`))

// RenderCart renders one row per cart line in the store's iteration order,
// plus the running total to exactly two decimals. An empty cart renders a
// single empty-state row with a "0.00" total. Lines whose product is no
// longer in the catalog are skipped entirely.
func RenderCart(cartStore *cart.Store, catalogStore catalog.Store) (template.HTML, error) {
	data := cartViewData{}
	total := decimal.Zero

	for _, line := range cartStore.Lines() {
		product, ok := catalogStore.Lookup(line.ProductID)
		if !ok {
			continue
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		data.Rows = append(data.Rows, cartRow{
			ProductID: line.ProductID,
			Name:      product.Name,
			Summary: fmt.Sprintf("%d × $%s (%s)",
				line.Quantity, product.Price.StringFixed(2), product.Subcategory),
			Quantity: line.Quantity,
		})
	}
	data.Total = total.StringFixed(2)

	var buf bytes.Buffer
	if err := cartTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render cart: %w", err)
	}
	return template.HTML(buf.String()), nil
}
