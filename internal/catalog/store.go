package catalog

import (
	"sync"

	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

// Store is the flattened product index built from the last successful catalog
// fetch. It is rebuilt by re-indexing during each render pass; no deletion is
// exposed.
type Store interface {
	// IndexProduct inserts or overwrites the entry for the product id,
	// stamping the owning category and subcategory names onto a copy.
	IndexProduct(p domain.Product, categoryName, subcategoryName string)
	// Lookup returns the indexed product, or false when the id is unknown.
	Lookup(id domain.ProductID) (domain.Product, bool)
}

type store struct {
	mu       sync.RWMutex
	products map[domain.ProductID]domain.Product
}

func NewStore() Store {
	return &store{
		products: make(map[domain.ProductID]domain.Product),
	}
}

func (s *store) IndexProduct(p domain.Product, categoryName, subcategoryName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Category = categoryName
	p.Subcategory = subcategoryName
	s.products[p.ID] = p
}

func (s *store) Lookup(id domain.ProductID) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	return p, ok
}
