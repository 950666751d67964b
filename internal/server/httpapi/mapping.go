package httpapi

import (
	"encoding/json"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/timex"
	"github.com/shopspring/decimal"
)

// Request payloads. Pointer fields tell "missing" apart from zero values.

type userRequest struct {
	Name    *string `json:"name" validate:"required,min=1,max=100"`
	Address *string `json:"address" validate:"required,min=1,max=200"`
	Email   *string `json:"email" validate:"required,max=100,email"`
}

func (req *userRequest) toModel(id int64) *models.User {
	return &models.User{ID: id, Name: *req.Name, Address: *req.Address, Email: *req.Email}
}

type productRequest struct {
	Name  *string          `json:"name" validate:"required,min=1,max=100"`
	Price *decimal.Decimal `json:"price" validate:"required,scale=2,gte=0,lte=9999999999.99"`
}

func (req *productRequest) toModel(id int64) *models.Product {
	return &models.Product{ID: id, Name: *req.Name, Price: *req.Price}
}

type orderRequest struct {
	UserID    *int64           `json:"user_id" validate:"required,gt=0"`
	OrderDate *timex.Timestamp `json:"order_date" validate:"required"`
}

func (req *orderRequest) toModel(id int64) *models.Order {
	return &models.Order{ID: id, UserID: *req.UserID, OrderDate: *req.OrderDate}
}

// Response payloads.

type userResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

type productResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

type orderResponse struct {
	ID        int64           `json:"id"`
	OrderDate timex.Timestamp `json:"order_date"`
	UserID    int64           `json:"user_id"`
}

type orderWithProductsResponse struct {
	orderResponse
	Products []productResponse `json:"products"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Address: u.Address, Email: u.Email}
}

func toUserResponses(users []*models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// Price is emitted as a bare JSON number carrying the stored decimal digits.
func toProductResponse(p *models.Product) productResponse {
	return productResponse{ID: p.ID, Name: p.Name, Price: json.Number(p.Price.String())}
}

func toProductResponses(products []*models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toProductValueResponses(products []models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return out
}

func toOrderResponse(o *models.Order) orderResponse {
	return orderResponse{ID: o.ID, OrderDate: o.OrderDate, UserID: o.UserID}
}

func toOrderResponses(orders []*models.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func toOrderWithProductsResponse(o *models.Order) orderWithProductsResponse {
	return orderWithProductsResponse{
		orderResponse: toOrderResponse(o),
		Products:      toProductValueResponses(o.Products),
	}
}
