package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_Lifecycle(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	store := newMemStore()
	s := NewProductService(db, &fakeRepoManager{s: store})
	ctx := context.Background()

	p, err := s.Create(ctx, &models.Product{Name: "Pen", Price: decimal.RequireFromString("1.50")})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1.5")))

	upd, err := s.Update(ctx, &models.Product{ID: p.ID, Name: "Pencil", Price: decimal.Zero})
	require.NoError(t, err)
	assert.Equal(t, "Pencil", upd.Name)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.Delete(ctx, p.ID))
	_, err = s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectRollback()

	s := NewProductService(db, &fakeRepoManager{s: newMemStore()})

	_, err := s.Update(context.Background(), &models.Product{ID: 7, Name: "x"})
	assert.EqualError(t, err, "not found: product 7")

	err = s.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_StoreError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	store := newMemStore()
	store.fail = errBoom{}
	s := NewProductService(db, &fakeRepoManager{s: store})

	_, err := s.Create(context.Background(), &models.Product{Name: "x"})
	assert.EqualError(t, err, "error creating product: boom")

	_, err = s.Get(context.Background(), 1)
	assert.EqualError(t, err, "error getting product: boom")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_PriceOutOfRangeIsValidationError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectRollback()

	store := newMemStore()
	store.fail = fmt.Errorf("price: %w", dbx.ErrNumericOutOfRange)
	s := NewProductService(db, &fakeRepoManager{s: store})
	ctx := context.Background()
	price := decimal.RequireFromString("100000000000")

	_, err := s.Create(ctx, &models.Product{Name: "Pen", Price: price})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, []string{"Number out of range."}, verr.Fields["price"])

	_, err = s.Update(ctx, &models.Product{ID: 1, Name: "Pen", Price: price})
	assert.ErrorIs(t, err, common.ErrorValidation)

	assert.NoError(t, mock.ExpectationsWereMet())
}
