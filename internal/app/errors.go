package service

import (
	"errors"

	"github.com/okian/architect/internal/adapters/repository"
	"github.com/okian/architect/internal/domain/backup"
)

// Sentinel kinds surfaced by the service. Store errors are passed through
// wrapped, so callers can match the repository sentinels re-exported here.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotConfirmed  = errors.New("clear not confirmed")
	ErrInvalidFormat = backup.ErrInvalidFormat

	ErrNotFound           = repository.ErrNotFound
	ErrConstraint         = repository.ErrConstraint
	ErrStorageUnavailable = repository.ErrStorageUnavailable
)
