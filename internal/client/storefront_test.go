package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichelSalibaa/ZiadSupplies/internal/config"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

func newTestClient(baseURL string) StorefrontClient {
	return NewStorefrontClient(config.BackendConfig{
		BaseURL:              baseURL,
		Timeout:              5,
		MaxRetries:           0,
		MaxRequestsPerSecond: 50,
	})
}

func TestFetchCatalog_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/catalog", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"categories":[{"name":"Detergents","subcategories":[{"subcategory":"Powders","items":[{"id":"p1","name":"SuperClean","price":9.5}]}]}]}`))
	}))
	defer srv.Close()

	catalog, err := newTestClient(srv.URL).FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Categories, 1)

	category := catalog.Categories[0]
	assert.Equal(t, "Detergents", category.Name)
	require.Len(t, category.Subcategories, 1)
	assert.Equal(t, "Powders", category.Subcategories[0].Name)
	require.Len(t, category.Subcategories[0].Products, 1)

	product := category.Subcategories[0].Products[0]
	assert.Equal(t, domain.ProductID("p1"), product.ID)
	assert.Equal(t, "9.50", product.Price.StringFixed(2))
}

func TestFetchCatalog_NumericProductIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"categories":[{"name":"Detergents","subcategories":[{"subcategory":"Chlorine","items":[{"id":42,"name":"Chlorine 4L","price":0}]}]}]}`))
	}))
	defer srv.Close()

	catalog, err := newTestClient(srv.URL).FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ProductID("42"), catalog.Categories[0].Subcategories[0].Products[0].ID)
}

func TestFetchCatalog_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Failed to load catalog."}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchCatalog(context.Background())
	var loadErr *domain.CatalogLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, http.StatusInternalServerError, loadErr.Status)
}

func TestFetchCatalog_MalformedBodyTreatedAsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	catalog, err := newTestClient(srv.URL).FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, catalog.Categories)
}

func TestSubmitOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"orderId":42,"status":"received","message":"Order #42 confirmed"}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).SubmitOrder(context.Background(), domain.OrderRequest{
		CustomerName: "Ziad",
		Items:        []domain.OrderItem{{ProductID: "p1", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.OrderID)
	assert.Equal(t, "Order #42 confirmed", resp.Message)
}

func TestSubmitOrder_ErrorBodyMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Out of stock"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SubmitOrder(context.Background(), domain.OrderRequest{
		Items: []domain.OrderItem{{ProductID: "p1", Quantity: 1}},
	})
	var subErr *domain.OrderSubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "Out of stock", subErr.Message)
	assert.Equal(t, http.StatusBadRequest, subErr.Status)
}

func TestSubmitOrder_UnparseableErrorBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SubmitOrder(context.Background(), domain.OrderRequest{
		Items: []domain.OrderItem{{ProductID: "p1", Quantity: 1}},
	})
	var subErr *domain.OrderSubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "Checkout failed.", subErr.Message)
}

func TestSubmitOrder_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).SubmitOrder(context.Background(), domain.OrderRequest{
		Items: []domain.OrderItem{{ProductID: "p1", Quantity: 1}},
	})
	var subErr *domain.OrderSubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.NotEmpty(t, subErr.Error())
}
