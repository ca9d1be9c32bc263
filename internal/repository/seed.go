package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type productSeed struct {
	Subcategory string
	Name        string
	Unit        string
	Price       string
	Description string
	ImageURL    string
}

type categorySeed struct {
	Slug        string
	Name        string
	Description string
	ImageURL    string
	Items       []productSeed
}

var catalogSeed = []categorySeed{
	{
		Slug:        "detergent-cleaning",
		Name:        "Detergent & Cleaning Liquids",
		Description: "Bulk chlorine, antiseptic solutions, floor detergents, dishwashing liquids and hand soaps for kitchen hygiene protocols.",
		ImageURL:    "/static/images/category-detergent.svg",
		Items: []productSeed{
			{"Chlorine", "Chlorine 4L", "Jerrycan 4L", "0", "Concentrated chlorine for dishwashing stations.", "/static/images/product-chlorine.svg"},
			{"Chlorine", "Chlorine 10L", "Jerrycan 10L", "0", "Medium volume chlorine for daily cleaning.", "/static/images/product-chlorine.svg"},
			{"Chlorine", "Chlorine 22L", "Jerrycan 22L", "0", "High capacity chlorine stock.", "/static/images/product-chlorine.svg"},
			{"Chlorine", "Chlorine 30L", "Jerrycan 30L", "0", "Bulk chlorine for central kitchens.", "/static/images/product-chlorine.svg"},
			{"Antiseptic", "Antiseptic 4L", "Jerrycan 4L", "0", "Ready-to-use antiseptic for food-prep surfaces.", "/static/images/product-antiseptic.svg"},
			{"Antiseptic", "Antiseptic 10L", "Jerrycan 10L", "0", "Bulk supply for high-frequency sanitation.", "/static/images/product-antiseptic.svg"},
			{"Floor Detergent", "Floor Detergent 4L", "Jerrycan 4L", "0", "Neutral floor cleaner for daily maintenance.", "/static/images/product-floor.svg"},
			{"Floor Detergent", "Floor Detergent 10L", "Jerrycan 10L", "0", "High coverage floor detergent.", "/static/images/product-floor.svg"},
			{"Floor Detergent", "Floor Detergent 22L", "Jerrycan 22L", "0", "Bulk floor detergent for large venues.", "/static/images/product-floor.svg"},
			{"Floor Detergent", "Floor Detergent 30L", "Jerrycan 30L", "0", "Heavy-duty stock for facilities teams.", "/static/images/product-floor.svg"},
			{"Dishwashing", "Dishwashing 4L", "Jerrycan 4L", "0", "Concentrated dishwashing liquid.", "/static/images/product-dish.svg"},
			{"Dishwashing", "Dishwashing 10L", "Jerrycan 10L", "0", "Economical pack for dishwashing lines.", "/static/images/product-dish.svg"},
			{"Dishwashing", "Dishwashing 22L", "Jerrycan 22L", "0", "Bulk supply for central dish rooms.", "/static/images/product-dish.svg"},
			{"Dishwashing", "Dishwashing 30L", "Jerrycan 30L", "0", "Maximum volume dishwashing liquid.", "/static/images/product-dish.svg"},
			{"Hand Soap", "Hand Soap 4L", "Jerrycan 4L", "0", "Fragrance-free formula suitable for kitchen teams.", "/static/images/product-hand-soap.svg"},
			{"Hand Soap", "Hand Soap 10L", "Jerrycan 10L", "0", "High-volume refill for dispenser systems.", "/static/images/product-hand-soap.svg"},
		},
	},
	{
		Slug:        "food-packaging",
		Name:        "Food & Packaging Containers",
		Description: "Pizza boxes, plastic takeaway containers, salad bowls and kraft packaging for delivery and dine-out programs.",
		ImageURL:    "/static/images/category-packaging.svg",
		Items: []productSeed{
			{"Pizza Boxes", "Pizza Box 20cm", "Bundle", "0", "Corrugated pizza box 20cm, vented.", "/static/images/product-pizza-box.svg"},
			{"Pizza Boxes", "Pizza Box 30cm", "Bundle", "0", "Corrugated pizza box 30cm, vented.", "/static/images/product-pizza-box.svg"},
			{"Pizza Boxes", "Pizza Box 35cm", "Bundle", "0", "Wide format pizza box 35cm.", "/static/images/product-pizza-box.svg"},
			{"Pizza Boxes", "Pizza Box 40cm", "Bundle", "0", "XL pizza box 40cm for family portions.", "/static/images/product-pizza-box.svg"},
			{"Plastic Boxes", "Plastic Box 100cc", "Carton", "0", "Microwave-safe PP box 100cc.", "/static/images/product-plastic-box.svg"},
			{"Plastic Boxes", "Plastic Box 150cc", "Carton", "0", "Microwave-safe PP box 150cc.", "/static/images/product-plastic-box.svg"},
			{"Plastic Boxes", "Plastic Box 375cc", "Carton", "0", "Microwave-safe PP box 375cc.", "/static/images/product-plastic-box.svg"},
			{"Plastic Boxes", "Plastic Box 750cc", "Carton", "0", "Microwave-safe PP box 750cc.", "/static/images/product-plastic-box.svg"},
			{"Plastic Boxes", "Plastic Box 1000cc", "Carton", "0", "Microwave-safe PP box 1000cc.", "/static/images/product-plastic-box.svg"},
			{"Plastic Boxes", "Plastic Box 1500cc", "Carton", "0", "Microwave-safe PP box 1500cc.", "/static/images/product-plastic-box.svg"},
			{"Sandwich Wrappers", "Sandwich Wrappers", "Bundle", "0", "Grease-resistant sandwich wrap sheets.", "/static/images/product-wrapper.svg"},
			{"Salad Bowls", "Salad Bowls", "Carton", "0", "Clear salad bowls with lid.", "/static/images/product-salad-bowl.svg"},
			{"Kraft Bags", "Kraft Bags", "Bundle", "0", "Sturdy kraft takeaway bags.", "/static/images/product-kraft-bag.svg"},
			{"Carton Plates", "Carton Plates", "Bundle", "0", "Rigid carton plates for catering service.", "/static/images/product-carton-plate.svg"},
		},
	},
	{
		Slug:        "hygiene-safety",
		Name:        "Hygiene & Safety",
		Description: "Protective gloves, hair nets, sleeves and trash bags for front and back of house teams.",
		ImageURL:    "/static/images/category-hygiene.svg",
		Items: []productSeed{
			{"Gloves", "Latex Gloves - Small (Blue)", "Box", "0", "Powder-free latex gloves, blue, size small.", "/static/images/product-gloves.svg"},
			{"Gloves", "Latex Gloves - Medium (Blue)", "Box", "0", "Powder-free latex gloves, blue, size medium.", "/static/images/product-gloves.svg"},
			{"Gloves", "Latex Gloves - Large (Blue)", "Box", "0", "Powder-free latex gloves, blue, size large.", "/static/images/product-gloves.svg"},
			{"Gloves", "Latex Gloves - Small (Black)", "Box", "0", "Powder-free latex gloves, black, size small.", "/static/images/product-gloves.svg"},
			{"Gloves", "Latex Gloves - Medium (Black)", "Box", "0", "Powder-free latex gloves, black, size medium.", "/static/images/product-gloves.svg"},
			{"Gloves", "Latex Gloves - Large (Black)", "Box", "0", "Powder-free latex gloves, black, size large.", "/static/images/product-gloves.svg"},
			{"Hair Nets", "Hair Nets (White)", "Pack", "0", "Breathable disposable hair nets, white.", "/static/images/product-hairnet.svg"},
			{"Hair Nets", "Hair Nets (Black)", "Pack", "0", "Breathable disposable hair nets, black.", "/static/images/product-hairnet.svg"},
			{"Hand Sleeves", "Hand Sleeves (White)", "Pack", "0", "Disposable hand sleeves, white.", "/static/images/product-sleeve.svg"},
			{"Hand Sleeves", "Hand Sleeves (Black)", "Pack", "0", "Disposable hand sleeves, black.", "/static/images/product-sleeve.svg"},
			{"Trash Bags", "Trash Bags - Small", "Roll", "0", "High-density small trash bags.", "/static/images/product-trash-bag.svg"},
			{"Trash Bags", "Trash Bags - Medium", "Roll", "0", "High-density medium trash bags.", "/static/images/product-trash-bag.svg"},
			{"Trash Bags", "Trash Bags - Large", "Roll", "0", "High-density large trash bags.", "/static/images/product-trash-bag.svg"},
			{"Trash Bags", "Trash Bags - 85cm", "Roll", "0", "Extra-strong trash bags 85cm.", "/static/images/product-trash-bag.svg"},
			{"Trash Bags", "Trash Bags - 110cm", "Roll", "0", "Extra-strong trash bags 110cm.", "/static/images/product-trash-bag.svg"},
			{"Trash Bags", "Trash Bags - 125cm", "Roll", "0", "Extra-strong trash bags 125cm.", "/static/images/product-trash-bag.svg"},
		},
	},
	{
		Slug:        "cloths-wipes",
		Name:        "Microfiber Cloths & Wipes",
		Description: "Reusable microfiber cloths and disposable wipes for service stations.",
		ImageURL:    "/static/images/category-cloths.svg",
		Items: []productSeed{
			{"Microfiber Cloths", "Microfiber Color-Coded Cloths", "Pack of 20", "0", "Color-coded cloths for HACCP separation.", "/static/images/product-microfiber.svg"},
			{"Wipes", "Service Wipes", "Tub of 200", "0", "Disposable wipes for food contact surfaces.", "/static/images/product-wipes.svg"},
		},
	},
	{
		Slug:        "tissues-napkins",
		Name:        "Tissues & Napkins",
		Description: "Interfold napkins, toilet napkins and kitchen rolls stocked for dining rooms.",
		ImageURL:    "/static/images/category-tissues.svg",
		Items: []productSeed{
			{"Interfold Napkins", "Interfold Napkins 2kg", "Pack", "0", "Food-service interfold napkins 2kg.", "/static/images/product-interfold.svg"},
			{"Interfold Napkins", "Interfold Napkins 3kg", "Pack", "0", "Food-service interfold napkins 3kg.", "/static/images/product-interfold.svg"},
			{"Interfold Napkins", "Interfold Napkins 4kg", "Pack", "0", "Food-service interfold napkins 4kg.", "/static/images/product-interfold.svg"},
			{"Toilet Napkins", "Toilet Napkins (6 rolls)", "Pack", "0", "Soft-touch toilet napkins pack of 6 rolls.", "/static/images/product-toilet.svg"},
			{"Kitchen Napkins", "Kitchen Napkins (6 rolls)", "Pack", "0", "Highly absorbent kitchen napkins pack of 6.", "/static/images/product-kitchen.svg"},
		},
	},
}

// SeedCatalog upserts the built-in catalog: categories matched by slug,
// products by name within their category. Categories no longer in the seed
// are removed when no order references their products. Safe to run on every
// startup.
func SeedCatalog(ctx context.Context, db *pgxpool.Pool) error {
	targetSlugs := make(map[string]struct{}, len(catalogSeed))
	for _, category := range catalogSeed {
		targetSlugs[category.Slug] = struct{}{}
	}

	if err := removeStaleCategories(ctx, db, targetSlugs); err != nil {
		return err
	}

	for _, category := range catalogSeed {
		var categoryID int64
		err := db.QueryRow(ctx,
			`INSERT INTO categories (slug, name, description, image_url)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (slug)
			 DO UPDATE SET name = $2, description = $3, image_url = $4
			 RETURNING id`,
			category.Slug, category.Name, category.Description, category.ImageURL).Scan(&categoryID)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Slug, err)
		}

		for _, item := range category.Items {
			if err := seedProduct(ctx, db, categoryID, item); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", item.Name, err)
			}
		}
	}

	log.Infof("Catalog seeded with %d categories", len(catalogSeed))
	return nil
}

func seedProduct(ctx context.Context, db *pgxpool.Pool, categoryID int64, item productSeed) error {
	tag, err := db.Exec(ctx,
		`UPDATE products
		 SET subcategory = $3, description = $4, unit = $5, price = $6, image_url = $7
		 WHERE category_id = $1 AND name = $2`,
		categoryID, item.Name, item.Subcategory, item.Description, item.Unit, item.Price, item.ImageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	_, err = db.Exec(ctx,
		`INSERT INTO products (category_id, subcategory, name, description, unit, price, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		categoryID, item.Subcategory, item.Name, item.Description, item.Unit, item.Price, item.ImageURL)
	return err
}

func removeStaleCategories(ctx context.Context, db *pgxpool.Pool, targetSlugs map[string]struct{}) error {
	rows, err := db.Query(ctx, `SELECT id, slug FROM categories`)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	type existing struct {
		id   int64
		slug string
	}
	var stale []existing
	for rows.Next() {
		var e existing
		if err := rows.Scan(&e.id, &e.slug); err != nil {
			return fmt.Errorf("failed to scan category: %w", err)
		}
		if _, ok := targetSlugs[e.slug]; !ok {
			stale = append(stale, e)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read categories: %w", err)
	}

	for _, e := range stale {
		var referencing int
		if err := db.QueryRow(ctx,
			`SELECT COUNT(*) FROM order_items
			 WHERE product_id IN (SELECT id FROM products WHERE category_id = $1)`,
			e.id).Scan(&referencing); err != nil {
			return fmt.Errorf("failed to check references for category %s: %w", e.slug, err)
		}
		if referencing > 0 {
			// Keep categories that historical orders still point at.
			continue
		}
		if _, err := db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, e.id); err != nil {
			return fmt.Errorf("failed to remove stale category %s: %w", e.slug, err)
		}
		log.Infof("Removed stale category %s", e.slug)
	}

	return nil
}
