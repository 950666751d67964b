package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/orders"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// memStore backs the fake repositories. fail, when set, is returned by
// every repository call.
type memStore struct {
	users    map[int64]*models.User
	products map[int64]*models.Product
	orders   map[int64]*models.Order
	links    map[[2]int64]bool
	nextID   int64
	fail     error

	// simulates a concurrent insert between HasProduct and AddProduct
	raceOnAdd bool
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]*models.User{},
		products: map[int64]*models.Product{},
		orders:   map[int64]*models.Order{},
		links:    map[[2]int64]bool{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(name string) *models.User {
	u := &models.User{ID: s.id(), Name: name, Address: "street", Email: name + "@example.com"}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addProduct(name string) *models.Product {
	p := &models.Product{ID: s.id(), Name: name}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addOrder(userID int64) *models.Order {
	o := &models.Order{ID: s.id(), UserID: userID}
	s.orders[o.ID] = o
	return o
}

type fakeRepoManager struct {
	s *memStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return &fakeUsersRepo{m.s} }
func (m *fakeRepoManager) Products(dbx.DBTX) products.Repository        { return &fakeProductsRepo{m.s} }
func (m *fakeRepoManager) Orders(dbx.DBTX) orders.Repository            { return &fakeOrdersRepo{m.s} }

type fakeUsersRepo struct{ s *memStore }

func (r *fakeUsersRepo) List(context.Context) ([]*models.User, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	out := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *fakeUsersRepo) Exists(_ context.Context, id int64) (bool, error) {
	if r.s.fail != nil {
		return false, r.s.fail
	}
	_, ok := r.s.users[id]
	return ok, nil
}

func (r *fakeUsersRepo) emailTaken(email string, except int64) bool {
	for _, u := range r.s.users {
		if u.Email == email && u.ID != except {
			return true
		}
	}
	return false
}

func (r *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	if r.emailTaken(u.Email, 0) {
		return nil, fmt.Errorf("%w: email already exists", common.ErrorConflict)
	}
	c := *u
	c.ID = r.s.id()
	r.s.users[c.ID] = &c
	return &c, nil
}

func (r *fakeUsersRepo) Update(_ context.Context, u *models.User) (*models.User, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	if _, ok := r.s.users[u.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return nil, fmt.Errorf("%w: email already exists", common.ErrorConflict)
	}
	c := *u
	r.s.users[c.ID] = &c
	return &c, nil
}

func (r *fakeUsersRepo) Delete(_ context.Context, id int64) error {
	if r.s.fail != nil {
		return r.s.fail
	}
	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	return nil
}

type fakeProductsRepo struct{ s *memStore }

func (r *fakeProductsRepo) List(context.Context) ([]*models.Product, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	out := make([]*models.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductsRepo) ListByOrder(_ context.Context, orderID int64) ([]*models.Product, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	var out []*models.Product
	for k := range r.s.links {
		if k[0] == orderID {
			out = append(out, r.s.products[k[1]])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductsRepo) GetByID(_ context.Context, id int64) (*models.Product, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (r *fakeProductsRepo) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	c := *p
	c.ID = r.s.id()
	r.s.products[c.ID] = &c
	return &c, nil
}

func (r *fakeProductsRepo) Update(_ context.Context, p *models.Product) (*models.Product, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	if _, ok := r.s.products[p.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	r.s.products[c.ID] = &c
	return &c, nil
}

func (r *fakeProductsRepo) Delete(_ context.Context, id int64) error {
	if r.s.fail != nil {
		return r.s.fail
	}
	if _, ok := r.s.products[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.products, id)
	return nil
}

type fakeOrdersRepo struct{ s *memStore }

func (r *fakeOrdersRepo) List(context.Context) ([]*models.Order, error) {
	return r.ListByUser(context.Background(), 0)
}

// ListByUser with userID 0 lists every order.
func (r *fakeOrdersRepo) ListByUser(_ context.Context, userID int64) ([]*models.Order, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	out := []*models.Order{}
	for _, o := range r.s.orders {
		if userID == 0 || o.UserID == userID {
			c := *o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeOrdersRepo) GetByID(_ context.Context, id int64) (*models.Order, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	o, ok := r.s.orders[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *o
	return &c, nil
}

func (r *fakeOrdersRepo) Create(_ context.Context, o *models.Order) (*models.Order, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	if _, ok := r.s.users[o.UserID]; !ok {
		return nil, fmt.Errorf("orders_user_id_fkey: %w", dbx.ErrForeignKeyViolation)
	}
	c := *o
	c.ID = r.s.id()
	r.s.orders[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeOrdersRepo) Update(_ context.Context, o *models.Order) (*models.Order, error) {
	if r.s.fail != nil {
		return nil, r.s.fail
	}
	if _, ok := r.s.orders[o.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	c := *o
	r.s.orders[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeOrdersRepo) Delete(_ context.Context, id int64) error {
	if r.s.fail != nil {
		return r.s.fail
	}
	if _, ok := r.s.orders[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.orders, id)
	return nil
}

func (r *fakeOrdersRepo) HasProduct(_ context.Context, orderID, productID int64) (bool, error) {
	if r.s.fail != nil {
		return false, r.s.fail
	}
	if r.s.raceOnAdd {
		return false, nil
	}
	return r.s.links[[2]int64{orderID, productID}], nil
}

func (r *fakeOrdersRepo) AddProduct(_ context.Context, orderID, productID int64) error {
	if r.s.fail != nil {
		return r.s.fail
	}
	k := [2]int64{orderID, productID}
	if r.s.links[k] {
		return fmt.Errorf("%w: product %d already in order %d", common.ErrorConflict, productID, orderID)
	}
	r.s.links[k] = true
	return nil
}

func (r *fakeOrdersRepo) RemoveProduct(_ context.Context, orderID, productID int64) error {
	if r.s.fail != nil {
		return r.s.fail
	}
	k := [2]int64{orderID, productID}
	if !r.s.links[k] {
		return common.ErrorNotFound
	}
	delete(r.s.links, k)
	return nil
}

// racingUsersManager reports every user as existing, so the store's
// foreign key is the only guard left.
type racingUsersManager struct {
	*fakeRepoManager
}

func (m *racingUsersManager) Users(db dbx.DBTX) users.Repository {
	return &alwaysExistsUsers{fakeUsersRepo{m.s}}
}

type alwaysExistsUsers struct {
	fakeUsersRepo
}

func (alwaysExistsUsers) Exists(context.Context, int64) (bool, error) { return true, nil }
