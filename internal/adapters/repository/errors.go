package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound           = errors.New("record not found")
	ErrConstraint         = errors.New("storage constraint violated")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidID          = errors.New("invalid record id")
)

// errorKind labels err for metrics.
func errorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConstraint):
		return "constraint"
	case errors.Is(err, ErrStorageUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInvalidID):
		return "invalid_id"
	default:
		return "error"
	}
}
