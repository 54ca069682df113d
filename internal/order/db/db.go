package db

import (
	"context"

	"jastip-express/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- ORDERS ----------------

// GetOrderByID → fetch one order by its ID
func (d *DB) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder → insert new order
func (d *DB) CreateOrder(ctx context.Context, order models.Order) error {
	_, err := d.Bun.NewInsert().Model(&order).Exec(ctx)
	return err
}

// CreateOrders → insert a batch of orders in one transaction. Used by the
// bulk import; either every row lands or none do.
func (d *DB) CreateOrders(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&orders).Exec(ctx)
		return err
	})
}

// UpdateOrder → update allowed fields
func (d *DB) UpdateOrder(ctx context.Context, order models.Order) error {
	_, err := d.Bun.NewUpdate().
		Model(&order).
		Column("customer_name", "item_description", "quantity", "price",
			"original_price", "jastip_fee", "specific_requests", "status").
		Where("id = ?", order.ID).
		Exec(ctx)
	return err
}

// DeleteOrder → delete an order by ID
func (d *DB) DeleteOrder(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Order)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// ---------------- EVENT QUERIES ----------------

// ListByEvent → all orders for an event, oldest first so grouping keeps
// submission order
func (d *DB) ListByEvent(ctx context.Context, eventID string) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("event_id = ?", eventID).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// ListByEventAndCreator → orders for an event filtered to their creator
func (d *DB) ListByEventAndCreator(ctx context.Context, eventID, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("event_id = ?", eventID).
		Where("user_id = ?", userID).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// ListByEventAndCustomer → the orders behind one customer's invoice
func (d *DB) ListByEventAndCustomer(ctx context.Context, eventID, customerName string) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("event_id = ?", eventID).
		Where("customer_name = ?", customerName).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// DeleteByEventAndCustomer → remove all of one customer's orders for an
// event in a single transaction, returning how many went away
func (d *DB) DeleteByEventAndCustomer(ctx context.Context, eventID, customerName string) (int, error) {
	var deleted int
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.Order)(nil)).
			Where("event_id = ?", eventID).
			Where("customer_name = ?", customerName).
			Exec(ctx)
		if err != nil {
			return err
		}
		count, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = int(count)
		return nil
	})
	return deleted, err
}
