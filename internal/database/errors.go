package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStorageUnavailable  = errors.New("storage unavailable")

	ErrUsernameTaken = fmt.Errorf("username %w", ErrAlreadyExists)
	ErrEmailTaken    = fmt.Errorf("email %w", ErrAlreadyExists)
)

// PostgreSQL error codes and classes the repositories react to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNumericOutOfRange   = "22003"

	pgClassConnectionException   = "08"
	pgClassInsufficientResources = "53"
	pgClassOperatorIntervention  = "57"
)

// classifyError maps a driver error onto the package sentinels. Foreign key violations and ids
// outside the INTEGER range become ErrConstraintViolation, unique violations ErrAlreadyExists. Connection, resource and
// cancellation failures, as well as errors that never reached the server, become
// ErrStorageUnavailable so callers know the whole operation can be retried.
func classifyError(op string, err error) error {
	var pge *pq.Error
	if errors.As(err, &pge) {
		switch pge.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrConstraintViolation, pge.Detail)
		case pgNumericOutOfRange:
			return fmt.Errorf("%s: %w: %s", op, ErrConstraintViolation, pge.Message)
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		switch pge.Code.Class() {
		case pgClassConnectionException, pgClassInsufficientResources, pgClassOperatorIntervention:
			return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConstraintViolation) || errors.Is(err, ErrAlreadyExists) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// isUniqueViolation checks if a PostgreSQL error is a unique constraint violation (23505)
// and returns the violated constraint name.
func isUniqueViolation(err error) (string, bool) {
	var pge *pq.Error
	if errors.As(err, &pge) && pge.Code == pgUniqueViolation {
		return pge.Constraint, true
	}
	return "", false
}
