package storefront

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/MichelSalibaa/ZiadSupplies/internal/checkout"
	"github.com/MichelSalibaa/ZiadSupplies/internal/client"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
	"github.com/MichelSalibaa/ZiadSupplies/internal/view"
)

// Handler is the UI adapter: it maps browser commands onto the session's
// stores, renderers and checkout coordinator. The core state machine stays
// free of HTTP concerns; everything request-shaped lives here.
type Handler struct {
	storefront client.StorefrontClient
	sessions   *SessionManager
}

func NewHandler(storefront client.StorefrontClient) *Handler {
	return &Handler{
		storefront: storefront,
		sessions:   NewSessionManager(storefront),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", h.renderPage)
	r.Post("/cart/add", h.addToCart)
	r.Post("/cart/update", h.updateCartQuantity)
	r.Post("/cart/remove", h.removeFromCart)
	r.Post("/categories/toggle", h.toggleCategory)
	r.Post("/checkout", h.submitCheckout)

	return r
}

// renderPage fetches a fresh catalog snapshot, re-indexes it into the
// session's catalog store during the render pass, and assembles the page.
// A fetch failure renders an inline error in place of the grid; the rest of
// the page stays interactive.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(w, r)

	var catalogHTML template.HTML
	snapshot, err := h.storefront.FetchCatalog(r.Context())
	if err != nil {
		log.Warnf("Failed to load catalog: %v", err)
		catalogHTML = view.CatalogErrorHTML()
	} else {
		catalogHTML, err = view.RenderCatalog(snapshot, session.Catalog, session.IsExpanded)
		if err != nil {
			http.Error(w, "failed to render page", http.StatusInternalServerError)
			return
		}
	}

	cartHTML, err := view.RenderCart(session.Cart, session.Catalog)
	if err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	page, err := view.RenderPage(view.PageData{
		CatalogHTML: catalogHTML,
		CartHTML:    cartHTML,
		Form:        session.Form(),
		Message:     session.Message(),
		Submitting:  session.Coordinator.State() == checkout.StateSubmitting,
	})
	if err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// addToCart reads the one-shot quantity entry, clamping anything non-numeric
// or below 1 up to 1 before mutating the cart.
func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(w, r)

	productID := domain.ProductID(r.FormValue("productId"))
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	session.Cart.Add(productID, quantity)
	h.redirectHome(w, r)
}

// updateCartQuantity rejects invalid edits outright: the re-render restores
// the last known-good quantity and no state changes.
func (h *Handler) updateCartQuantity(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(w, r)

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err == nil && quantity >= 1 {
		session.Cart.UpdateQuantity(domain.ProductID(r.FormValue("productId")), quantity)
	}
	h.redirectHome(w, r)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(w, r)
	session.Cart.Remove(domain.ProductID(r.FormValue("productId")))
	h.redirectHome(w, r)
}

func (h *Handler) toggleCategory(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(w, r)
	if name := r.FormValue("category"); name != "" {
		session.ToggleCategory(name)
	}
	h.redirectHome(w, r)
}

func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(w, r)

	form := checkout.Form{
		CustomerName: r.FormValue("customerName"),
		Email:        r.FormValue("email"),
		Phone:        r.FormValue("phone"),
		Address:      r.FormValue("address"),
	}
	session.SetForm(view.FormValues{
		CustomerName: form.CustomerName,
		Email:        form.Email,
		Phone:        form.Phone,
		Address:      form.Address,
	})

	outcome := session.Coordinator.Submit(r.Context(), form)
	switch outcome.State {
	case checkout.StateSuccess:
		session.ResetForm()
		session.SetMessage(&view.Message{Text: outcome.Message, Kind: view.MessageSuccess})
	default:
		session.SetMessage(&view.Message{Text: outcome.Message, Kind: view.MessageError})
	}

	h.redirectHome(w, r)
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
