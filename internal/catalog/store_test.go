package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

func TestStore_IndexProduct_StampsOwningNames(t *testing.T) {
	s := NewStore()

	s.IndexProduct(domain.Product{
		ID:    "p1",
		Name:  "SuperClean",
		Price: decimal.NewFromFloat(9.5),
	}, "Detergents", "Powders")

	got, ok := s.Lookup("p1")
	require.True(t, ok)
	assert.Equal(t, "Detergents", got.Category)
	assert.Equal(t, "Powders", got.Subcategory)
	assert.Equal(t, "SuperClean", got.Name)
}

func TestStore_IndexProduct_OverwritesExistingEntry(t *testing.T) {
	s := NewStore()

	s.IndexProduct(domain.Product{ID: "p1", Name: "Old name"}, "Detergents", "Powders")
	s.IndexProduct(domain.Product{ID: "p1", Name: "New name"}, "Detergents", "Liquids")

	got, ok := s.Lookup("p1")
	require.True(t, ok)
	assert.Equal(t, "New name", got.Name)
	assert.Equal(t, "Liquids", got.Subcategory)
}

func TestStore_Lookup_UnknownID(t *testing.T) {
	s := NewStore()

	_, ok := s.Lookup("missing")
	assert.False(t, ok)
}
