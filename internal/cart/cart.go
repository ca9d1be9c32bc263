package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/MichelSalibaa/ZiadSupplies/internal/catalog"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

// Line is one product id paired with a quantity, the unit of cart state.
// The line holds a weak reference: product data is looked up by id in the
// catalog store at render time, never stored.
type Line struct {
	ProductID domain.ProductID
	Quantity  int
}

// Store holds the cart lines for one page session. It is created empty,
// mutated only through Add/UpdateQuantity/Remove, and cleared wholesale on
// checkout success. Cart state never persists across sessions.
//
// Lines are kept in insertion order so re-renders stay visually stable.
type Store struct {
	mu      sync.Mutex
	catalog catalog.Store
	lines   map[domain.ProductID]*Line
	order   []domain.ProductID
}

func NewStore(catalogStore catalog.Store) *Store {
	return &Store{
		catalog: catalogStore,
		lines:   make(map[domain.ProductID]*Line),
	}
}

// Add increases the quantity for a product. Unknown product ids are silently
// ignored; they indicate a stale handler referencing a replaced catalog.
// Each addition contributes at least 1.
func (s *Store) Add(id domain.ProductID, quantity int) {
	if _, ok := s.catalog.Lookup(id); !ok {
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[id]
	if !ok {
		line = &Line{ProductID: id, Quantity: 0}
		s.lines[id] = line
		s.order = append(s.order, id)
	}
	line.Quantity += quantity
}

// UpdateQuantity overwrites the quantity of an existing line, clamped to a
// minimum of 1. No-op when the line does not exist.
func (s *Store) UpdateQuantity(id domain.ProductID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[id]
	if !ok {
		return
	}
	if quantity < 1 {
		quantity = 1
	}
	line.Quantity = quantity
}

// Remove deletes the line unconditionally. Idempotent.
func (s *Store) Remove(id domain.ProductID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lines[id]; !ok {
		return
	}
	delete(s.lines, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear drops every line. Called only on checkout success.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = make(map[domain.ProductID]*Line)
	s.order = nil
}

// Lines returns the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		lines = append(lines, *s.lines[id])
	}
	return lines
}

// Quantity returns the current quantity for a product, 0 when absent.
func (s *Store) Quantity(id domain.ProductID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line, ok := s.lines[id]; ok {
		return line.Quantity
	}
	return 0
}

// Items builds the order payload from the current lines.
func (s *Store) Items() []domain.OrderItem {
	lines := s.Lines()
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items
}

// Total sums price × quantity across all lines, resolving prices through the
// catalog store. Lines whose product vanished from the catalog contribute
// nothing.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines() {
		product, ok := s.catalog.Lookup(line.ProductID)
		if !ok {
			continue
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
