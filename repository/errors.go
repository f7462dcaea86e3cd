// Package repository holds the GORM-backed stores for releases, tracks, news
// and users. Handlers distinguish failures with errors.Is against the
// sentinels below, errors.As against *model.ValidationError and
// *auth.AuthorizationError.
package repository

import (
	"errors"
	"fmt"

	"LabelCMS/db"
	"LabelCMS/logger"

	"gorm.io/gorm"
)

// ErrNotFound is returned when an id does not resolve to a row.
var ErrNotFound = errors.New("not found")

// ErrStorageUnavailable is returned by writes when the database cannot be
// reached. Reads never return it; they degrade to empty results instead.
var ErrStorageUnavailable = errors.New("storage unavailable")

const defaultLatestLimit = 5

// normalizeLimit coerces a caller-supplied limit to a positive integer.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLatestLimit
	}
	return limit
}

// degraded reports whether a read failure should be hidden behind an empty
// result, logging it when so.
func degraded(op string, err error) bool {
	if err == nil || !db.IsUnavailable(err) {
		return false
	}
	logger.Warn("Database unavailable, serving empty result",
		logger.String("op", op),
		logger.ErrorField(err),
	)
	return true
}

// unavailableRead logs a read against a missing handle.
func unavailableRead(op string) {
	logger.Warn("Database not configured, serving empty result", logger.String("op", op))
}

// writeError wraps a failed write, tagging unreachable storage.
func writeError(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if db.IsUnavailable(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
