package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

type CatalogRepository interface {
	// GetCatalog returns every category ordered by name, with products
	// grouped into subcategories in first-seen order (products sorted by
	// subcategory then name).
	GetCatalog(ctx context.Context) ([]domain.Category, error)
}

type catalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetCatalog(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, slug, name, COALESCE(description, ''), COALESCE(image_url, '')
		 FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	for i := range categories {
		subcategories, err := r.categoryProducts(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].Subcategories = subcategories
	}

	return categories, nil
}

func (r *catalogRepository) categoryProducts(ctx context.Context, categoryID int64) ([]domain.Subcategory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, subcategory, name, COALESCE(description, ''), COALESCE(unit, ''), price::text, COALESCE(image_url, '')
		 FROM products
		 WHERE category_id = $1
		 ORDER BY subcategory, name`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products for category %d: %w", categoryID, err)
	}
	defer rows.Close()

	var subcategories []domain.Subcategory
	index := make(map[string]int)

	for rows.Next() {
		var (
			id       int64
			subName  string
			p        domain.Product
			rawPrice string
		)
		if err := rows.Scan(&id, &subName, &p.Name, &p.Description, &p.Unit, &rawPrice, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		p.ID = domain.ProductID(strconv.FormatInt(id, 10))
		p.Price, err = decimal.NewFromString(rawPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price for product %d: %w", id, err)
		}

		pos, ok := index[subName]
		if !ok {
			pos = len(subcategories)
			index[subName] = pos
			subcategories = append(subcategories, domain.Subcategory{Name: subName})
		}
		subcategories[pos].Products = append(subcategories[pos].Products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return subcategories, nil
}
