// Package services contains server-side business logic for users,
// products and orders. Services own the transactional scope: every
// mutating call runs inside one dbx.WithTx, reads go to the pool.
package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
)

func notFound(kind string, id int64) error {
	return fmt.Errorf("%w: %s %d", common.ErrorNotFound, kind, id)
}

// wrap adds context to store failures. Errors that already carry a
// client-facing kind are passed through unchanged.
func wrap(err error, msg string) error {
	if errors.Is(err, common.ErrorNotFound) ||
		errors.Is(err, common.ErrorConflict) ||
		errors.Is(err, common.ErrorValidation) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
