package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MichelSalibaa/ZiadSupplies/internal/cache"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain/task"
	"github.com/MichelSalibaa/ZiadSupplies/internal/queue"
	"github.com/MichelSalibaa/ZiadSupplies/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

const orderReceivedMessage = "Your order has been received! We'll confirm delivery details shortly via email."

// API serves the JSON endpoints the storefront client talks to.
type API struct {
	catalogRepo  repository.CatalogRepository
	orderRepo    repository.OrderRepository
	catalogCache cache.CatalogCache
	queue        queue.Queue
}

func NewAPI(
	catalogRepo repository.CatalogRepository,
	orderRepo repository.OrderRepository,
	catalogCache cache.CatalogCache,
	q queue.Queue,
) *API {
	return &API{
		catalogRepo:  catalogRepo,
		orderRepo:    orderRepo,
		catalogCache: catalogCache,
		queue:        q,
	}
}

func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/api/catalog", a.getCatalog)
	r.Post("/api/orders", a.createOrder)

	return r
}

func (a *API) getCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if a.catalogCache != nil {
		cached, err := a.catalogCache.Get(ctx)
		if err != nil {
			log.Warnf("Catalog cache read failed: %v", err)
		} else if cached != nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{"categories": cached.Categories})
			return
		}
	}

	categories, err := a.catalogRepo.GetCatalog(ctx)
	if err != nil {
		log.Errorf("Failed to load catalog: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load catalog.")
		return
	}

	if a.catalogCache != nil {
		if err := a.catalogCache.Set(ctx, &domain.Catalog{Categories: categories}); err != nil {
			log.Warnf("Catalog cache write failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// orderPayload mirrors the request body with pointer fields so missing keys
// can be told apart from empty ones during validation.
type orderPayload struct {
	CustomerName *string            `json:"customerName"`
	Email        *string            `json:"email"`
	Phone        *string            `json:"phone"`
	Address      *string            `json:"address"`
	Items        *[]json.RawMessage `json:"items"`
}

type itemPayload struct {
	ProductID *domain.ProductID `json:"productId"`
	Quantity  *int              `json:"quantity"`
}

func (a *API) createOrder(w http.ResponseWriter, r *http.Request) {
	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return
	}

	order, validationError := buildOrderRequest(payload)
	if validationError != "" {
		writeError(w, http.StatusBadRequest, validationError)
		return
	}

	orderID, err := a.orderRepo.CreateOrder(r.Context(), order)
	if err != nil {
		switch err {
		case repository.ErrEmptyCart, repository.ErrUnknownProduct, repository.ErrInvalidQuantity:
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Errorf("Failed to create order: %v", err)
			writeError(w, http.StatusInternalServerError, "We could not complete your order. Please try again.")
		}
		return
	}

	if a.queue != nil {
		if _, err := a.queue.AddTask(r.Context(), &task.OrderEmailTask{OrderID: orderID}); err != nil {
			log.Errorf("Failed to queue confirmation email for order %d: %v", orderID, err)
		}
	}

	writeJSON(w, http.StatusCreated, domain.OrderResponse{
		OrderID: orderID,
		Status:  "received",
		Message: orderReceivedMessage,
	})
}

func buildOrderRequest(payload orderPayload) (domain.OrderRequest, string) {
	var order domain.OrderRequest

	if payload.CustomerName == nil {
		return order, "Missing required field: customerName"
	}
	if payload.Email == nil {
		return order, "Missing required field: email"
	}
	if payload.Phone == nil {
		return order, "Missing required field: phone"
	}
	if payload.Address == nil {
		return order, "Missing required field: address"
	}
	if payload.Items == nil {
		return order, "Missing required field: items"
	}

	if len(*payload.Items) == 0 {
		return order, "Cart cannot be empty."
	}

	email := strings.TrimSpace(*payload.Email)
	if !strings.Contains(email, "@") {
		return order, "A valid email address is required."
	}

	phone := strings.TrimSpace(*payload.Phone)
	if len(phone) < 6 {
		return order, "Phone number looks too short."
	}

	items := make([]domain.OrderItem, 0, len(*payload.Items))
	for _, raw := range *payload.Items {
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
			return order, "Each cart item must be an object."
		}

		var item itemPayload
		if err := json.Unmarshal(raw, &item); err != nil {
			return order, "Cart items require productId and quantity."
		}
		if item.ProductID == nil || item.Quantity == nil {
			return order, "Cart items require productId and quantity."
		}

		items = append(items, domain.OrderItem{ProductID: *item.ProductID, Quantity: *item.Quantity})
	}

	order.CustomerName = strings.TrimSpace(*payload.CustomerName)
	order.Email = email
	order.Phone = phone
	order.Address = strings.TrimSpace(*payload.Address)
	order.Items = items

	return order, ""
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
