package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MichelSalibaa/ZiadSupplies/internal/domain"
)

// Business-rule rejections surfaced verbatim to the customer.
var (
	ErrEmptyCart       = errors.New("Cart is empty.")
	ErrUnknownProduct  = errors.New("One or more products do not exist.")
	ErrInvalidQuantity = errors.New("Quantities must be greater than zero.")
	ErrOrderNotFound   = errors.New("Order not found.")
)

type OrderRepository interface {
	// CreateOrder stores the order and its items in one transaction and
	// returns the new order id.
	CreateOrder(ctx context.Context, order domain.OrderRequest) (int64, error)
	// GetOrderSummary returns the stored order with priced lines and the
	// COD total.
	GetOrderSummary(ctx context.Context, orderID int64) (*domain.OrderSummary, error)
}

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order domain.OrderRequest) (int64, error) {
	if len(order.Items) == 0 {
		return 0, ErrEmptyCart
	}

	productIDs := make([]int64, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return 0, ErrInvalidQuantity
		}
		id, err := strconv.ParseInt(item.ProductID.String(), 10, 64)
		if err != nil {
			return 0, ErrUnknownProduct
		}
		productIDs = append(productIDs, id)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var known int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(DISTINCT id) FROM products WHERE id = ANY($1)`,
		productIDs).Scan(&known); err != nil {
		return 0, fmt.Errorf("failed to validate products: %w", err)
	}
	if known != len(uniqueIDs(productIDs)) {
		return 0, ErrUnknownProduct
	}

	var orderID int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO orders (customer_name, email, phone, address, status)
		 VALUES ($1, $2, $3, $4, 'received')
		 RETURNING id`,
		order.CustomerName, order.Email, order.Phone, order.Address).Scan(&orderID); err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range order.Items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3)`,
			orderID, productIDs[i], item.Quantity); err != nil {
			return 0, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) GetOrderSummary(ctx context.Context, orderID int64) (*domain.OrderSummary, error) {
	summary := &domain.OrderSummary{}
	err := r.db.QueryRow(ctx,
		`SELECT id, customer_name, email, phone, address, status, created_at
		 FROM orders WHERE id = $1`, orderID).Scan(
		&summary.ID, &summary.CustomerName, &summary.Email,
		&summary.Phone, &summary.Address, &summary.Status, &summary.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT products.name, products.price::text, order_items.quantity
		 FROM order_items
		 JOIN products ON order_items.product_id = products.id
		 WHERE order_items.order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for order %d: %w", orderID, err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var (
			line     domain.SummaryLine
			rawPrice string
		)
		if err := rows.Scan(&line.Name, &rawPrice, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		line.Price, err = decimal.NewFromString(rawPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to parse item price: %w", err)
		}
		line.LineTotal = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(line.LineTotal)
		summary.Items = append(summary.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}

	summary.Total = total
	return summary, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
