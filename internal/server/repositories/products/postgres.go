// Package products provides the PostgreSQL-backed product repository.
package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// PostgresRepository implements product storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Product, error) {
	query :=
		`SELECT id, name, price FROM products
		 ORDER BY id
		 `
	return r.selectMany(ctx, query)
}

// ListByOrder returns the products associated with orderID, ordered by id.
// It does not check that the order exists.
func (r *PostgresRepository) ListByOrder(ctx context.Context, orderID int64) ([]*models.Product, error) {
	query :=
		`SELECT p.id, p.name, p.price FROM products p
		 JOIN order_product op ON op.product_id = p.id
		 WHERE op.order_id = $1
		 ORDER BY p.id
		 `
	return r.selectMany(ctx, query, orderID)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Product, 0)
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query :=
		`SELECT id, name, price FROM products
		 WHERE id = $1
		 `

	p := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	query :=
		`INSERT INTO products (name, price)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, product.Name, product.Price).Scan(&product.ID)
	if err != nil {
		return nil, translate(err)
	}

	return product, nil
}

func (r *PostgresRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	query :=
		`UPDATE products SET name = $2, price = $3
		 WHERE id = $1
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, product.ID, product.Name, product.Price).Scan(&product.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, translate(err)
	}

	return product, nil
}

// Delete removes the product; order_product rows referencing it are removed
// by the store (ON DELETE CASCADE), the orders themselves are kept.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
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
	if dbx.IsNumericOutOfRange(err) {
		return fmt.Errorf("price: %w", dbx.ErrNumericOutOfRange)
	}
	return fmt.Errorf("db error: %w", err)
}
