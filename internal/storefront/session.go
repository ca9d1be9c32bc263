package storefront

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MichelSalibaa/ZiadSupplies/internal/cart"
	"github.com/MichelSalibaa/ZiadSupplies/internal/catalog"
	"github.com/MichelSalibaa/ZiadSupplies/internal/checkout"
	"github.com/MichelSalibaa/ZiadSupplies/internal/client"
	"github.com/MichelSalibaa/ZiadSupplies/internal/view"
)

const (
	sessionCookie = "ziad_session"

	// Sessions idle longer than this are dropped, cart included, so the
	// manager does not accumulate abandoned carts indefinitely.
	sessionTTL = 24 * time.Hour
)

// Session is one customer's page session: catalog index, cart, checkout
// coordinator, per-category toggle state, and the latest checkout message.
// Nothing here is persisted; closing the session loses the cart.
type Session struct {
	ID string

	Catalog     catalog.Store
	Cart        *cart.Store
	Coordinator *checkout.Coordinator

	// lastSeen is guarded by the SessionManager mutex, not the session's.
	lastSeen time.Time

	mu       sync.Mutex
	expanded map[string]bool
	form     view.FormValues
	message  *view.Message
}

func newSession(storefront client.StorefrontClient) *Session {
	catalogStore := catalog.NewStore()
	cartStore := cart.NewStore(catalogStore)
	return &Session{
		ID:          uuid.NewString(),
		Catalog:     catalogStore,
		Cart:        cartStore,
		Coordinator: checkout.NewCoordinator(storefront, cartStore),
		expanded:    make(map[string]bool),
	}
}

// IsExpanded reports the toggle state for a category card. Cards start
// collapsed; the state is local UI state per card, not shared.
func (s *Session) IsExpanded(categoryName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[categoryName]
}

// ToggleCategory flips the visibility of a category's item container.
func (s *Session) ToggleCategory(categoryName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded[categoryName] = !s.expanded[categoryName]
}

// Form returns the checkout fields carried between renders.
func (s *Session) Form() view.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetForm remembers what the customer typed so a failed attempt keeps it.
func (s *Session) SetForm(form view.FormValues) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

// ResetForm clears the checkout fields after a successful order.
func (s *Session) ResetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = view.FormValues{}
}

// Message returns the outcome of the most recent submission attempt.
func (s *Session) Message() *view.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// SetMessage replaces the message region content; no history accumulates.
func (s *Session) SetMessage(m *view.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = m
}

// SessionManager hands out the session bound to the request cookie, creating
// one on first contact.
type SessionManager struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	storefront client.StorefrontClient
}

func NewSessionManager(storefront client.StorefrontClient) *SessionManager {
	return &SessionManager{
		sessions:   make(map[string]*Session),
		storefront: storefront,
	}
}

func (m *SessionManager) Get(w http.ResponseWriter, r *http.Request) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.pruneExpired(now)

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if session, ok := m.sessions[cookie.Value]; ok {
			session.lastSeen = now
			return session
		}
	}

	session := newSession(m.storefront)
	session.lastSeen = now
	m.sessions[session.ID] = session
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session
}

// pruneExpired drops sessions idle past the TTL. Caller holds the mutex.
func (m *SessionManager) pruneExpired(now time.Time) {
	for id, session := range m.sessions {
		if now.Sub(session.lastSeen) > sessionTTL {
			delete(m.sessions, id)
		}
	}
}
