package orders

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) (*models.Order, error)
	Delete(ctx context.Context, id int64) error

	HasProduct(ctx context.Context, orderID, productID int64) (bool, error)
	AddProduct(ctx context.Context, orderID, productID int64) error
	RemoveProduct(ctx context.Context, orderID, productID int64) error
}
