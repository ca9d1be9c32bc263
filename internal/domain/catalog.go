package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductID is an opaque product identifier, stable across catalog fetches.
// The backend emits numeric ids; the type accepts both numbers and strings on
// the wire so callers never depend on the representation.
type ProductID string

func (id ProductID) String() string {
	return string(id)
}

func (id ProductID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to parse product id: %w", err)
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to parse product id: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

// Product is one sellable item from the catalog payload. Category and
// Subcategory are stamped during indexing, not carried on the wire.
type Product struct {
	ID          ProductID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty"`

	Category    string `json:"-"`
	Subcategory string `json:"-"`
}

// Subcategory groups products under a name unique within its category.
type Subcategory struct {
	Name     string    `json:"subcategory"`
	Products []Product `json:"items"`
}

type Category struct {
	ID            int64         `json:"id,omitempty"`
	Slug          string        `json:"slug,omitempty"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	Subcategories []Subcategory `json:"subcategories"`
}

// ItemCount sums the item counts across all subcategories.
func (c Category) ItemCount() int {
	count := 0
	for _, sub := range c.Subcategories {
		count += len(sub.Products)
	}
	return count
}

// Catalog is the full snapshot returned by the backend at a point in time.
type Catalog struct {
	Categories []Category `json:"categories"`
}
