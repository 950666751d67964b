package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
)

var errDatabaseUnreachable = errors.New("database unreachable")

const pingTimeout = 3 * time.Second

type pinger interface {
	PingContext(ctx context.Context) error
}

// watchDatabase pings db every interval and logs each switch between
// reachable and unreachable. After maxFailures failed pings in a row it
// returns an error wrapping errDatabaseUnreachable; with maxFailures 0 it
// only logs. It returns nil once ctx is done.
func watchDatabase(ctx context.Context, db pinger, logger logging.Logger, interval time.Duration, maxFailures int) error {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := db.PingContext(pctx)
			cancel()

			if ctx.Err() != nil {
				return nil
			}

			if err != nil {
				failures++
				if failures == 1 {
					logger.Warn(ctx, "Database unreachable", "error", err)
				}
				if maxFailures > 0 && failures >= maxFailures {
					return fmt.Errorf("%w after %d checks: %v", errDatabaseUnreachable, failures, err)
				}
				continue
			}

			if failures > 0 {
				logger.Info(ctx, "Database reachable again", "failed_checks", failures)
				failures = 0
			}

		case <-ctx.Done():
			return nil
		}
	}
}
