package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
)

// OrderService manages orders and the products attached to them.
// Returned orders always carry a non-nil Products slice.
type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager) *OrderService {
	return &OrderService{db: db, repomanager: m}
}

func unknownUser(id int64) error {
	return validation.NewError("user_id", fmt.Sprintf("User %d does not exist.", id))
}

// List returns all orders without their products.
func (s *OrderService) List(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.repomanager.Orders(s.db).List(ctx)
	if err != nil {
		return nil, wrap(err, "error listing orders")
	}
	return orders, nil
}

// ListByUser returns the user's orders, or common.ErrorNotFound when the
// user does not exist.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	ok, err := s.repomanager.Users(s.db).Exists(ctx, userID)
	if err != nil {
		return nil, wrap(err, "error checking user")
	}
	if !ok {
		return nil, notFound("user", userID)
	}

	orders, err := s.repomanager.Orders(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, wrap(err, "error listing orders")
	}
	return orders, nil
}

// Get returns the order with its products.
func (s *OrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.getOrder(ctx, s.db, id)
	if err != nil {
		return nil, wrap(err, "error getting order")
	}
	if err := s.loadProducts(ctx, s.db, order); err != nil {
		return nil, wrap(err, "error getting order")
	}
	return order, nil
}

// ListProducts returns the products attached to the order, ordered by id.
func (s *OrderService) ListProducts(ctx context.Context, orderID int64) ([]models.Product, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order.Products, nil
}

// Create stores a new order for an existing user. An unknown user_id is a
// validation failure on that field.
func (s *OrderService) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	var created *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkUser(ctx, tx, order.UserID); err != nil {
			return err
		}

		var err error
		created, err = s.repomanager.Orders(tx).Create(ctx, order)
		if errors.Is(err, dbx.ErrForeignKeyViolation) {
			return unknownUser(order.UserID)
		}
		return err
	})
	if err != nil {
		return nil, wrap(err, "error creating order")
	}
	created.Products = []models.Product{}
	return created, nil
}

// Update replaces user_id and order_date of the order with order.ID.
func (s *OrderService) Update(ctx context.Context, order *models.Order) (*models.Order, error) {
	var updated *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkUser(ctx, tx, order.UserID); err != nil {
			return err
		}

		var err error
		updated, err = s.repomanager.Orders(tx).Update(ctx, order)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return notFound("order", order.ID)
		case errors.Is(err, dbx.ErrForeignKeyViolation):
			return unknownUser(order.UserID)
		case err != nil:
			return err
		}
		return s.loadProducts(ctx, tx, updated)
	})
	if err != nil {
		return nil, wrap(err, "error updating order")
	}
	return updated, nil
}

// Delete removes the order and its product associations.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := s.repomanager.Orders(tx).Delete(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("order", id)
		}
		return err
	})
	if err != nil {
		return wrap(err, "error deleting order")
	}
	return nil
}

// AddProduct attaches the product to the order. Attaching the same product
// twice yields common.ErrorConflict.
func (s *OrderService) AddProduct(ctx context.Context, orderID, productID int64) (*models.Order, error) {
	var order *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if order, err = s.getOrder(ctx, tx, orderID); err != nil {
			return err
		}
		if err = s.checkProduct(ctx, tx, productID); err != nil {
			return err
		}

		repo := s.repomanager.Orders(tx)
		has, err := repo.HasProduct(ctx, orderID, productID)
		if err != nil {
			return err
		}
		if has {
			return fmt.Errorf("%w: product %d already in order %d", common.ErrorConflict, productID, orderID)
		}
		if err := repo.AddProduct(ctx, orderID, productID); err != nil {
			return err
		}
		return s.loadProducts(ctx, tx, order)
	})
	if err != nil {
		return nil, wrap(err, "error adding product to order")
	}
	return order, nil
}

// RemoveProduct detaches the product from the order. A product that is not
// attached yields common.ErrorNotFound.
func (s *OrderService) RemoveProduct(ctx context.Context, orderID, productID int64) (*models.Order, error) {
	var order *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if order, err = s.getOrder(ctx, tx, orderID); err != nil {
			return err
		}
		if err = s.checkProduct(ctx, tx, productID); err != nil {
			return err
		}

		err = s.repomanager.Orders(tx).RemoveProduct(ctx, orderID, productID)
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: product %d is not in order %d", common.ErrorNotFound, productID, orderID)
		}
		if err != nil {
			return err
		}
		return s.loadProducts(ctx, tx, order)
	})
	if err != nil {
		return nil, wrap(err, "error removing product from order")
	}
	return order, nil
}

func (s *OrderService) getOrder(ctx context.Context, db dbx.DBTX, id int64) (*models.Order, error) {
	order, err := s.repomanager.Orders(db).GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, notFound("order", id)
	}
	return order, err
}

func (s *OrderService) checkUser(ctx context.Context, db dbx.DBTX, id int64) error {
	ok, err := s.repomanager.Users(db).Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return unknownUser(id)
	}
	return nil
}

func (s *OrderService) checkProduct(ctx context.Context, db dbx.DBTX, id int64) error {
	_, err := s.repomanager.Products(db).GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return notFound("product", id)
	}
	return err
}

func (s *OrderService) loadProducts(ctx context.Context, db dbx.DBTX, order *models.Order) error {
	products, err := s.repomanager.Products(db).ListByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	order.Products = make([]models.Product, 0, len(products))
	for _, p := range products {
		order.Products = append(order.Products, *p)
	}
	return nil
}
