package httpapi

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type ProductService interface {
	List(ctx context.Context) ([]*models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type OrderService interface {
	List(ctx context.Context) ([]*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	ListProducts(ctx context.Context, orderID int64) ([]models.Product, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
	AddProduct(ctx context.Context, orderID, productID int64) (*models.Order, error)
	RemoveProduct(ctx context.Context, orderID, productID int64) (*models.Order, error)
}

// Pinger checks store connectivity; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}
