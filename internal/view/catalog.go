package view

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/MichelSalibaa/ZiadSupplies/internal/catalog"
	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

const (
	DefaultCategoryImage = "/static/images/category-default.svg"
	DefaultProductImage  = "/static/images/product-default.svg"
)

// CatalogErrorHTML is rendered in place of the grid when the catalog fetch
// fails. No partial catalog is ever shown.
func CatalogErrorHTML() template.HTML {
	return `<p class="catalog-error">We could not load the catalog. Please refresh the page to try again.</p>`
}

type categoryView struct {
	Name          string
	Description   string
	ImageURL      string
	Summary       string
	Expanded      bool
	ToggleLabel   string
	Subcategories []subcategoryView
}

type subcategoryView struct {
	Name     string
	Products []productView
}

type productView struct {
	ID          domain.ProductID
	Name        string
	Description string
	Unit        string
	Price       string
	ImageURL    string
	Subcategory string
}

var catalogTmpl = template.Must(template.New("catalog").Parse(`{{range .}}<article class="category-card">
<img class="category-image" src="{{.ImageURL}}" alt="{{.Name}}">
<div class="category-body">
<h2>{{.Name}}</h2>
{{with .Description}}<p class="category-description">{{.}}</p>{{end}}
<p class="category-summary">{{.Summary}}</p>
<form method="post" action="/categories/toggle">
<input type="hidden" name="category" value="{{.Name}}">
<button type="submit" class="toggle-items" aria-expanded="{{if .Expanded}}true{{else}}false{{end}}">{{.ToggleLabel}}</button>
</form>
</div>
<div class="category-items"{{if not .Expanded}} hidden{{end}}>
{{range .Subcategories}}<h3 class="subcategory-heading">{{.Name}}</h3>
{{range .Products}}<div class="product-card">
<img class="product-image" src="{{.ImageURL}}" alt="{{.Name}}">
<div class="product-body">
<h4>{{.Name}}</h4>
{{with .Unit}}<span class="product-unit">{{.}}</span>{{end}}
<span class="product-price">{{.Price}}</span>
<span class="product-meta">{{.Subcategory}}</span>
{{with .Description}}<p class="product-description">{{.}}</p>{{end}}
<form method="post" action="/cart/add" class="add-to-cart">
<input type="hidden" name="productId" value="{{.ID}}">
<input type="number" name="quantity" min="1" value="1" aria-label="Quantity">
<button type="submit" class="add-item">Add</button>
</form>
</div>
</div>
{{end}}{{end}}</div>
</article>
{{end}}`))

// RenderCatalog turns a catalog snapshot into the grid markup. As a side of
// the same render pass every product is indexed into the catalog store with
// its owning category and subcategory names stamped on, so cart lines can
// resolve products by id afterwards.
//
// An empty snapshot renders a single placeholder message instead of a grid.
func RenderCatalog(c *domain.Catalog, index catalog.Store, expanded func(categoryName string) bool) (template.HTML, error) {
	if c == nil || len(c.Categories) == 0 {
		return `<p class="catalog-empty">The catalog is currently empty. Please check back soon.</p>`, nil
	}

	views := make([]categoryView, 0, len(c.Categories))
	for _, category := range c.Categories {
		cv := categoryView{
			Name:        category.Name,
			Description: category.Description,
			ImageURL:    category.ImageURL,
			Summary:     fmt.Sprintf("%d groups • %d items", len(category.Subcategories), category.ItemCount()),
			Expanded:    expanded != nil && expanded(category.Name),
			ToggleLabel: "View items",
		}
		if cv.ImageURL == "" {
			cv.ImageURL = DefaultCategoryImage
		}
		if cv.Expanded {
			cv.ToggleLabel = "Hide items"
		}

		for _, sub := range category.Subcategories {
			sv := subcategoryView{Name: sub.Name}
			for _, product := range sub.Products {
				index.IndexProduct(product, category.Name, sub.Name)

				pv := productView{
					ID:          product.ID,
					Name:        product.Name,
					Description: product.Description,
					Unit:        product.Unit,
					Price:       "$" + product.Price.StringFixed(2),
					ImageURL:    product.ImageURL,
					Subcategory: sub.Name,
				}
				if pv.ImageURL == "" {
					pv.ImageURL = DefaultProductImage
				}
				sv.Products = append(sv.Products, pv)
			}
			cv.Subcategories = append(cv.Subcategories, sv)
		}
		views = append(views, cv)
	}

	var buf bytes.Buffer
	if err := catalogTmpl.Execute(&buf, views); err != nil {
		return "", fmt.Errorf("failed to render catalog: %w", err)
	}
	return template.HTML(buf.String()), nil
}
