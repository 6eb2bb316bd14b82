package postgres

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"bistro/internal/core/apperror"
)

// IsUnavailable reports whether err means the database could not be reached
// or refused the work, as opposed to rejecting the statement itself.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08": // connection exception
			return true
		case pgErr.Code == "57P01", pgErr.Code == "57P03", pgErr.Code == "53300":
			return true
		}
	}
	return false
}

// MapError converts unavailability into apperror StorageUnavailable and
// returns every other error unchanged.
func MapError(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	if IsUnavailable(err) {
		return apperror.NewStorageUnavailable(err)
	}
	return err
}
