package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// UserService manages customer records.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// List returns all users ordered by id.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, wrap(err, "error listing users")
	}
	return users, nil
}

// Get returns the user or an error matching common.ErrorNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, notFound("user", id)
		}
		return nil, wrap(err, "error getting user")
	}
	return u, nil
}

// Create stores a new user. A taken email yields common.ErrorConflict.
func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	var created *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Users(tx).Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, wrap(err, "error creating user")
	}
	return created, nil
}

// Update overwrites name, address and email of the user with user.ID.
func (s *UserService) Update(ctx context.Context, user *models.User) (*models.User, error) {
	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		updated, err = s.repomanager.Users(tx).Update(ctx, user)
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("user", user.ID)
		}
		return err
	})
	if err != nil {
		return nil, wrap(err, "error updating user")
	}
	return updated, nil
}

// Delete removes the user together with their orders.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := s.repomanager.Users(tx).Delete(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("user", id)
		}
		return err
	})
	if err != nil {
		return wrap(err, "error deleting user")
	}
	return nil
}
