// Package orders provides PostgreSQL-backed storage for orders and their
// order_product associations.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/timex"
)

// PostgresRepository implements order storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every order ordered by id. Products are not loaded.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Order, error) {
	query :=
		`SELECT id, order_date, user_id FROM orders
		 ORDER BY id
		 `
	return r.selectMany(ctx, query)
}

// ListByUser returns the orders of userID ordered by id. Products are not
// loaded and the user's existence is not checked.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	query :=
		`SELECT id, order_date, user_id FROM orders
		 WHERE user_id = $1
		 ORDER BY id
		 `
	return r.selectMany(ctx, query, userID)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Order, 0)
	for rows.Next() {
		var (
			o         models.Order
			orderDate time.Time
		)
		if err := rows.Scan(&o.ID, &orderDate, &o.UserID); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		o.OrderDate = timex.NewTimestamp(orderDate)
		result = append(result, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// GetByID returns the order without its products, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query :=
		`SELECT id, order_date, user_id FROM orders
		 WHERE id = $1
		 `

	var (
		o         models.Order
		orderDate time.Time
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &orderDate, &o.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	o.OrderDate = timex.NewTimestamp(orderDate)

	return &o, nil
}

// Create inserts the order. A user_id that references no user yields
// dbx.ErrForeignKeyViolation.
func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	query :=
		`INSERT INTO orders (order_date, user_id)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, order.OrderDate.Time, order.UserID).Scan(&order.ID)
	if err != nil {
		return nil, translate(err)
	}

	return order, nil
}

func (r *PostgresRepository) Update(ctx context.Context, order *models.Order) (*models.Order, error) {
	query :=
		`UPDATE orders SET order_date = $2, user_id = $3
		 WHERE id = $1
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, order.ID, order.OrderDate.Time, order.UserID).Scan(&order.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, translate(err)
	}

	return order, nil
}

// Delete removes the order together with its associations (ON DELETE CASCADE).
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) HasProduct(ctx context.Context, orderID, productID int64) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM order_product
		 WHERE order_id = $1 AND product_id = $2)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, orderID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// AddProduct inserts the association. An existing association yields
// common.ErrorConflict, a missing order or product yields common.ErrorNotFound.
func (r *PostgresRepository) AddProduct(ctx context.Context, orderID, productID int64) error {
	query :=
		`INSERT INTO order_product (order_id, product_id)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, orderID, productID); err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return fmt.Errorf("%w: product %d already in order %d", common.ErrorConflict, productID, orderID)
		case dbx.IsForeignKeyViolation(err):
			return fmt.Errorf("%w: %s", common.ErrorNotFound, dbx.ConstraintName(err))
		default:
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

// RemoveProduct deletes the association or returns common.ErrorNotFound
// when there is none.
func (r *PostgresRepository) RemoveProduct(ctx context.Context, orderID, productID int64) error {
	query :=
		`DELETE FROM order_product
		 WHERE order_id = $1 AND product_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, orderID, productID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func translate(err error) error {
	if dbx.IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w", dbx.ConstraintName(err), dbx.ErrForeignKeyViolation)
	}
	return fmt.Errorf("db error: %w", err)
}
