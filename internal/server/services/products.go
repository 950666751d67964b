package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
)

// priceOutOfRange reports a price the store refused to hold.
func priceOutOfRange() error {
	return validation.NewError("price", "Number out of range.")
}

type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager) *ProductService {
	return &ProductService{db: db, repomanager: m}
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	products, err := s.repomanager.Products(s.db).List(ctx)
	if err != nil {
		return nil, wrap(err, "error listing products")
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.repomanager.Products(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, notFound("product", id)
		}
		return nil, wrap(err, "error getting product")
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	var created *models.Product
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Products(tx).Create(ctx, product)
		if errors.Is(err, dbx.ErrNumericOutOfRange) {
			return priceOutOfRange()
		}
		return err
	})
	if err != nil {
		return nil, wrap(err, "error creating product")
	}
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	var updated *models.Product
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		updated, err = s.repomanager.Products(tx).Update(ctx, product)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return notFound("product", product.ID)
		case errors.Is(err, dbx.ErrNumericOutOfRange):
			return priceOutOfRange()
		}
		return err
	})
	if err != nil {
		return nil, wrap(err, "error updating product")
	}
	return updated, nil
}

// Delete removes the product from the catalogue and from every order.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := s.repomanager.Products(tx).Delete(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("product", id)
		}
		return err
	})
	if err != nil {
		return wrap(err, "error deleting product")
	}
	return nil
}
