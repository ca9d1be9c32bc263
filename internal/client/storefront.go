package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"github.com/MichelSalibaa/ZiadSupplies/internal/config"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

// StorefrontClient talks to the backend catalog and orders endpoints.
type StorefrontClient interface {
	FetchCatalog(ctx context.Context) (*domain.Catalog, error)
	SubmitOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error)
}

type storefrontClient struct {
	rl         ratelimit.Limiter
	baseURL    string
	httpClient *resty.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewStorefrontClient(cfg config.BackendConfig) StorefrontClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Accept", "application/json")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "storefront-backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Circuit breaker %s changed state: %s -> %s", name, from, to)
		},
	})

	return &storefrontClient{
		rl:         ratelimit.New(cfg.MaxRequestsPerSecond),
		baseURL:    cfg.BaseURL,
		httpClient: client,
		breaker:    breaker,
	}
}

// FetchCatalog loads the full catalog snapshot. Any transport failure or
// non-success status becomes a CatalogLoadError; a body whose categories
// field is absent or malformed is treated as an empty catalog instead.
func (c *storefrontClient) FetchCatalog(ctx context.Context) (*domain.Catalog, error) {
	c.rl.Take()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.httpClient.R().SetContext(ctx).Get("/api/catalog")
	})
	if err != nil {
		return nil, &domain.CatalogLoadError{Err: fmt.Errorf("failed to fetch catalog: %w", err)}
	}

	resp := result.(*resty.Response)
	if resp.IsError() {
		return nil, &domain.CatalogLoadError{Status: resp.StatusCode()}
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(resp.Bytes(), &catalog); err != nil {
		log.Warnf("Catalog payload is malformed, treating as empty: %v", err)
		return &domain.Catalog{}, nil
	}

	log.Debugf("Fetched catalog with %d categories", len(catalog.Categories))
	return &catalog, nil
}

// SubmitOrder posts a checkout payload. Non-success responses surface the
// server's error message when one is present; transport failures carry the
// underlying error. Both come back as an OrderSubmissionError.
func (c *storefrontClient) SubmitOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error) {
	c.rl.Take()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.httpClient.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(order).
			Post("/api/orders")
	})
	if err != nil {
		return nil, &domain.OrderSubmissionError{Err: err}
	}

	resp := result.(*resty.Response)
	if resp.IsError() {
		message := "Checkout failed."
		var body struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(resp.Bytes(), &body); err == nil && body.Error != "" {
			message = body.Error
		}
		return nil, &domain.OrderSubmissionError{Status: resp.StatusCode(), Message: message}
	}

	var confirmation domain.OrderResponse
	if err := json.Unmarshal(resp.Bytes(), &confirmation); err != nil {
		// Success status with an unreadable body still counts as a placed
		// order; the coordinator falls back to its default message.
		log.Warnf("Order confirmation body is malformed: %v", err)
	}

	log.Infof("Order submitted successfully (order id %d)", confirmation.OrderID)
	return &confirmation, nil
}
