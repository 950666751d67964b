package products

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Product, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}
