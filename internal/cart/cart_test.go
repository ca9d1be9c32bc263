package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichelSalibaa/ZiadSupplies/internal/catalog"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

func seededCatalog() catalog.Store {
	s := catalog.NewStore()
	s.IndexProduct(domain.Product{ID: "p1", Name: "SuperClean", Price: decimal.NewFromFloat(9.5)}, "Detergents", "Powders")
	s.IndexProduct(domain.Product{ID: "p2", Name: "Chlorine 4L", Price: decimal.NewFromFloat(3.25)}, "Detergents", "Chlorine")
	return s
}

func TestStore_Add_AccumulatesQuantity(t *testing.T) {
	s := NewStore(seededCatalog())

	s.Add("p1", 3)
	s.Add("p1", 2)

	assert.Equal(t, 5, s.Quantity("p1"))
	require.Len(t, s.Lines(), 1)
}

func TestStore_Add_ClampsEachAdditionToOne(t *testing.T) {
	s := NewStore(seededCatalog())

	s.Add("p1", 0)
	s.Add("p1", -7)

	assert.Equal(t, 2, s.Quantity("p1"))
}

func TestStore_Add_UnknownProductIsSilentNoop(t *testing.T) {
	s := NewStore(seededCatalog())

	s.Add("ghost", 3)

	assert.Empty(t, s.Lines())
}

func TestStore_UpdateQuantity(t *testing.T) {
	s := NewStore(seededCatalog())
	s.Add("p1", 3)

	t.Run("overwrites quantity", func(t *testing.T) {
		s.UpdateQuantity("p1", 7)
		assert.Equal(t, 7, s.Quantity("p1"))
	})

	t.Run("clamps below one to exactly one, never deletes", func(t *testing.T) {
		s.UpdateQuantity("p1", 0)
		assert.Equal(t, 1, s.Quantity("p1"))
		assert.Len(t, s.Lines(), 1)

		s.UpdateQuantity("p1", -4)
		assert.Equal(t, 1, s.Quantity("p1"))
	})

	t.Run("missing line is a no-op", func(t *testing.T) {
		s.UpdateQuantity("p2", 5)
		assert.Equal(t, 0, s.Quantity("p2"))
	})
}

func TestStore_Remove_IsIdempotent(t *testing.T) {
	s := NewStore(seededCatalog())
	s.Add("p1", 3)
	s.Add("p2", 1)

	s.Remove("p1")
	after := s.Lines()
	s.Remove("p1")

	assert.Equal(t, after, s.Lines())
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, domain.ProductID("p2"), s.Lines()[0].ProductID)
}

func TestStore_LinesKeepInsertionOrder(t *testing.T) {
	s := NewStore(seededCatalog())
	s.Add("p2", 1)
	s.Add("p1", 1)
	s.Add("p2", 1)

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, domain.ProductID("p2"), lines[0].ProductID)
	assert.Equal(t, domain.ProductID("p1"), lines[1].ProductID)
}

func TestStore_Total(t *testing.T) {
	s := NewStore(seededCatalog())
	s.Add("p1", 3)
	s.Add("p2", 2)

	// 3×9.50 + 2×3.25 = 35.00
	assert.Equal(t, "35.00", s.Total().StringFixed(2))

	s.Clear()
	assert.Equal(t, "0.00", s.Total().StringFixed(2))
	assert.Empty(t, s.Lines())
}

func TestStore_Items(t *testing.T) {
	s := NewStore(seededCatalog())
	s.Add("p1", 3)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.OrderItem{ProductID: "p1", Quantity: 3}, items[0])
}
