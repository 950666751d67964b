package httpapi

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
)

// shop is an in-memory stand-in for the services. fail, when set, is
// returned by every call.
type shop struct {
	users    map[int64]*models.User
	products map[int64]*models.Product
	orders   map[int64]*models.Order
	links    map[int64][]int64
	ids      map[string]int64
	fail     error
}

func newShop() *shop {
	return &shop{
		users:    map[int64]*models.User{},
		products: map[int64]*models.Product{},
		orders:   map[int64]*models.Order{},
		links:    map[int64][]int64{},
		ids:      map[string]int64{},
	}
}

func (s *shop) next(kind string) int64 {
	s.ids[kind]++
	return s.ids[kind]
}

func missing(kind string, id int64) error {
	return fmt.Errorf("%w: %s %d", common.ErrorNotFound, kind, id)
}

func (s *shop) withProducts(o *models.Order) *models.Order {
	c := *o
	c.Products = []models.Product{}
	ids := append([]int64(nil), s.links[o.ID]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c.Products = append(c.Products, *s.products[id])
	}
	return &c
}

type fakeUsers struct{ *shop }

func (f fakeUsers) List(context.Context) ([]*models.User, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := []*models.User{}
	for i := int64(1); i <= f.ids["user"]; i++ {
		if u, ok := f.users[i]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f fakeUsers) Get(_ context.Context, id int64) (*models.User, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	u, ok := f.users[id]
	if !ok {
		return nil, missing("user", id)
	}
	return u, nil
}

func (f fakeUsers) emailTaken(email string, except int64) bool {
	for _, u := range f.users {
		if u.Email == email && u.ID != except {
			return true
		}
	}
	return false
}

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if f.emailTaken(u.Email, 0) {
		return nil, fmt.Errorf("%w: email already exists", common.ErrorConflict)
	}
	c := *u
	c.ID = f.next("user")
	f.users[c.ID] = &c
	return &c, nil
}

func (f fakeUsers) Update(_ context.Context, u *models.User) (*models.User, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if _, ok := f.users[u.ID]; !ok {
		return nil, missing("user", u.ID)
	}
	if f.emailTaken(u.Email, u.ID) {
		return nil, fmt.Errorf("%w: email already exists", common.ErrorConflict)
	}
	c := *u
	f.users[c.ID] = &c
	return &c, nil
}

func (f fakeUsers) Delete(_ context.Context, id int64) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.users[id]; !ok {
		return missing("user", id)
	}
	delete(f.users, id)
	return nil
}

type fakeProducts struct{ *shop }

func (f fakeProducts) List(context.Context) ([]*models.Product, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := []*models.Product{}
	for i := int64(1); i <= f.ids["product"]; i++ {
		if p, ok := f.products[i]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakeProducts) Get(_ context.Context, id int64) (*models.Product, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	p, ok := f.products[id]
	if !ok {
		return nil, missing("product", id)
	}
	return p, nil
}

func (f fakeProducts) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	c := *p
	c.ID = f.next("product")
	f.products[c.ID] = &c
	return &c, nil
}

func (f fakeProducts) Update(_ context.Context, p *models.Product) (*models.Product, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if _, ok := f.products[p.ID]; !ok {
		return nil, missing("product", p.ID)
	}
	c := *p
	f.products[c.ID] = &c
	return &c, nil
}

// Delete also drops the product from orders so withProducts stays valid.
func (f fakeProducts) Delete(_ context.Context, id int64) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.products[id]; !ok {
		return missing("product", id)
	}
	delete(f.products, id)
	for oid, ids := range f.links {
		kept := ids[:0]
		for _, pid := range ids {
			if pid != id {
				kept = append(kept, pid)
			}
		}
		f.links[oid] = kept
	}
	return nil
}

type fakeOrders struct{ *shop }

func (f fakeOrders) List(ctx context.Context) ([]*models.Order, error) {
	return f.listWhere(func(*models.Order) bool { return true })
}

func (f fakeOrders) listWhere(keep func(*models.Order) bool) ([]*models.Order, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := []*models.Order{}
	for i := int64(1); i <= f.ids["order"]; i++ {
		if o, ok := f.orders[i]; ok && keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f fakeOrders) ListByUser(_ context.Context, userID int64) ([]*models.Order, error) {
	if _, ok := f.users[userID]; !ok && f.fail == nil {
		return nil, missing("user", userID)
	}
	return f.listWhere(func(o *models.Order) bool { return o.UserID == userID })
}

func (f fakeOrders) Get(_ context.Context, id int64) (*models.Order, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, missing("order", id)
	}
	return f.withProducts(o), nil
}

func (f fakeOrders) ListProducts(ctx context.Context, orderID int64) ([]models.Product, error) {
	o, err := f.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o.Products, nil
}

func (f fakeOrders) Create(_ context.Context, o *models.Order) (*models.Order, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if _, ok := f.users[o.UserID]; !ok {
		return nil, validation.NewError("user_id", fmt.Sprintf("User %d does not exist.", o.UserID))
	}
	c := *o
	c.ID = f.next("order")
	f.orders[c.ID] = &c
	return f.withProducts(&c), nil
}

func (f fakeOrders) Update(_ context.Context, o *models.Order) (*models.Order, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if _, ok := f.users[o.UserID]; !ok {
		return nil, validation.NewError("user_id", fmt.Sprintf("User %d does not exist.", o.UserID))
	}
	if _, ok := f.orders[o.ID]; !ok {
		return nil, missing("order", o.ID)
	}
	c := *o
	f.orders[c.ID] = &c
	return f.withProducts(&c), nil
}

func (f fakeOrders) Delete(_ context.Context, id int64) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.orders[id]; !ok {
		return missing("order", id)
	}
	delete(f.orders, id)
	delete(f.links, id)
	return nil
}

func (f fakeOrders) check(orderID, productID int64) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.orders[orderID]; !ok {
		return missing("order", orderID)
	}
	if _, ok := f.products[productID]; !ok {
		return missing("product", productID)
	}
	return nil
}

func (f fakeOrders) AddProduct(_ context.Context, orderID, productID int64) (*models.Order, error) {
	if err := f.check(orderID, productID); err != nil {
		return nil, err
	}
	for _, id := range f.links[orderID] {
		if id == productID {
			return nil, fmt.Errorf("%w: product %d already in order %d", common.ErrorConflict, productID, orderID)
		}
	}
	f.links[orderID] = append(f.links[orderID], productID)
	return f.withProducts(f.orders[orderID]), nil
}

func (f fakeOrders) RemoveProduct(_ context.Context, orderID, productID int64) (*models.Order, error) {
	if err := f.check(orderID, productID); err != nil {
		return nil, err
	}
	ids := f.links[orderID]
	for i, id := range ids {
		if id == productID {
			f.links[orderID] = append(ids[:i:i], ids[i+1:]...)
			return f.withProducts(f.orders[orderID]), nil
		}
	}
	return nil, fmt.Errorf("%w: product %d is not in order %d", common.ErrorNotFound, productID, orderID)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
