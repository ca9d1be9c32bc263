package storefront

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

type fakeBackend struct {
	catalog    *domain.Catalog
	catalogErr error
	orderResp  *domain.OrderResponse
	orderErr   error
	orders     []domain.OrderRequest
}

func (f *fakeBackend) FetchCatalog(ctx context.Context) (*domain.Catalog, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeBackend) SubmitOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error) {
	f.orders = append(f.orders, order)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.orderResp, nil
}

func detergents() *domain.Catalog {
	return &domain.Catalog{
		Categories: []domain.Category{
			{
				Name: "Detergents",
				Subcategories: []domain.Subcategory{
					{
						Name: "Powders",
						Products: []domain.Product{
							{ID: "p1", Name: "SuperClean", Price: decimal.NewFromFloat(9.5)},
						},
					},
				},
			},
		},
	}
}

// browser wraps an http.Client with a cookie jar so a test acts like one
// page session. POSTs follow the see-other redirect back to the page.
type browser struct {
	t      *testing.T
	client *http.Client
	base   string
}

func newBrowser(t *testing.T, backend *fakeBackend) (*browser, func()) {
	t.Helper()
	srv := httptest.NewServer(NewHandler(backend).Routes())
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:      t,
		client: &http.Client{Jar: jar},
		base:   srv.URL,
	}, srv.Close
}

func (b *browser) page() *goquery.Document {
	b.t.Helper()
	resp, err := b.client.Get(b.base + "/")
	require.NoError(b.t, err)
	defer resp.Body.Close()
	require.Equal(b.t, http.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(b.t, err)
	return doc
}

func (b *browser) post(path string, form url.Values) *goquery.Document {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	require.Equal(b.t, http.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(b.t, err)
	return doc
}

func TestHandler_AddRenderAndRemoveFlow(t *testing.T) {
	b, done := newBrowser(t, &fakeBackend{catalog: detergents()})
	defer done()

	doc := b.page()
	assert.Equal(t, "Detergents", doc.Find(".category-card h2").Text())
	assert.Equal(t, 1, doc.Find("li.cart-empty").Length())

	doc = b.post("/cart/add", url.Values{"productId": {"p1"}, "quantity": {"3"}})
	assert.Equal(t, "3 × $9.50 (Powders)", doc.Find(".cart-line-summary").Text())
	assert.Equal(t, "28.50", doc.Find("#cart-total").Text())

	doc = b.post("/cart/remove", url.Values{"productId": {"p1"}})
	assert.Equal(t, 1, doc.Find("li.cart-empty").Length())
	assert.Equal(t, "0.00", doc.Find("#cart-total").Text())
}

func TestHandler_AddClampsBadQuantityToOne(t *testing.T) {
	b, done := newBrowser(t, &fakeBackend{catalog: detergents()})
	defer done()
	b.page()

	doc := b.post("/cart/add", url.Values{"productId": {"p1"}, "quantity": {"banana"}})
	assert.Equal(t, "1 × $9.50 (Powders)", doc.Find(".cart-line-summary").Text())

	doc = b.post("/cart/add", url.Values{"productId": {"p1"}, "quantity": {"-5"}})
	assert.Equal(t, "2 × $9.50 (Powders)", doc.Find(".cart-line-summary").Text())
}

func TestHandler_UpdateRejectsInvalidEdit(t *testing.T) {
	b, done := newBrowser(t, &fakeBackend{catalog: detergents()})
	defer done()
	b.page()

	b.post("/cart/add", url.Values{"productId": {"p1"}, "quantity": {"3"}})

	// Invalid edits are rejected; the rendered quantity stays at the last
	// known-good value.
	doc := b.post("/cart/update", url.Values{"productId": {"p1"}, "quantity": {"zero"}})
	val, _ := doc.Find(".cart-qty input[name=quantity]").Attr("value")
	assert.Equal(t, "3", val)

	doc = b.post("/cart/update", url.Values{"productId": {"p1"}, "quantity": {"0"}})
	val, _ = doc.Find(".cart-qty input[name=quantity]").Attr("value")
	assert.Equal(t, "3", val)

	doc = b.post("/cart/update", url.Values{"productId": {"p1"}, "quantity": {"5"}})
	val, _ = doc.Find(".cart-qty input[name=quantity]").Attr("value")
	assert.Equal(t, "5", val)
}

func TestHandler_ToggleCategory(t *testing.T) {
	b, done := newBrowser(t, &fakeBackend{catalog: detergents()})
	defer done()

	doc := b.page()
	expanded, _ := doc.Find("button.toggle-items").Attr("aria-expanded")
	assert.Equal(t, "false", expanded)

	doc = b.post("/categories/toggle", url.Values{"category": {"Detergents"}})
	expanded, _ = doc.Find("button.toggle-items").Attr("aria-expanded")
	assert.Equal(t, "true", expanded)
	assert.Equal(t, "Hide items", doc.Find("button.toggle-items").Text())

	doc = b.post("/categories/toggle", url.Values{"category": {"Detergents"}})
	expanded, _ = doc.Find("button.toggle-items").Attr("aria-expanded")
	assert.Equal(t, "false", expanded)
}

func TestHandler_CatalogErrorRendersInlineMessage(t *testing.T) {
	b, done := newBrowser(t, &fakeBackend{catalogErr: &domain.CatalogLoadError{Status: 500}})
	defer done()

	doc := b.page()
	assert.Equal(t, 1, doc.Find(".catalog-error").Length())
	assert.Equal(t, 0, doc.Find(".category-card").Length())
	// The cart panel is still rendered; the page stays interactive.
	assert.Equal(t, 1, doc.Find("#checkout-form").Length())
}

func TestHandler_CheckoutSuccess(t *testing.T) {
	backend := &fakeBackend{
		catalog:   detergents(),
		orderResp: &domain.OrderResponse{OrderID: 42, Message: "Order #42 confirmed"},
	}
	b, done := newBrowser(t, backend)
	defer done()
	b.page()

	b.post("/cart/add", url.Values{"productId": {"p1"}, "quantity": {"2"}})
	doc := b.post("/checkout", url.Values{
		"customerName": {"Ziad"},
		"email":        {"ziad@example.com"},
		"phone":        {"70123456"},
		"address":      {"Beirut"},
	})

	message := doc.Find("#checkout-message")
	assert.Equal(t, "Order #42 confirmed", message.Text())
	assert.True(t, message.HasClass("success"))

	// Cart cleared, form fields reset.
	assert.Equal(t, 1, doc.Find("li.cart-empty").Length())
	name, _ := doc.Find("#checkout-form input[name=customerName]").Attr("value")
	assert.Empty(t, name)

	require.Len(t, backend.orders, 1)
	assert.Equal(t, []domain.OrderItem{{ProductID: "p1", Quantity: 2}}, backend.orders[0].Items)
}

func TestHandler_CheckoutFailureKeepsCartAndForm(t *testing.T) {
	backend := &fakeBackend{
		catalog:  detergents(),
		orderErr: &domain.OrderSubmissionError{Status: 400, Message: "Out of stock"},
	}
	b, done := newBrowser(t, backend)
	defer done()
	b.page()

	b.post("/cart/add", url.Values{"productId": {"p1"}, "quantity": {"2"}})
	doc := b.post("/checkout", url.Values{"customerName": {"Ziad"}})

	message := doc.Find("#checkout-message")
	assert.Equal(t, "Out of stock", message.Text())
	assert.True(t, message.HasClass("error"))

	assert.Equal(t, "2 × $9.50 (Powders)", doc.Find(".cart-line-summary").Text())
	name, _ := doc.Find("#checkout-form input[name=customerName]").Attr("value")
	assert.Equal(t, "Ziad", name)
}

func TestHandler_CheckoutEmptyCart(t *testing.T) {
	backend := &fakeBackend{catalog: detergents()}
	b, done := newBrowser(t, backend)
	defer done()

	doc := b.post("/checkout", url.Values{"customerName": {"Ziad"}})
	assert.Equal(t, "Please add at least one item to your cart.", doc.Find("#checkout-message").Text())
	assert.Empty(t, backend.orders)
}
