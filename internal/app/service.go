// Package service implements the record-keeping operations used by the API
// and the command line: roster management, scored observations, growth
// meetings, reports and backups.
package service

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/okian/architect/internal/adapters/repository"
	"github.com/okian/architect/internal/domain/backup"
	"github.com/okian/architect/pkg/logger"
)

// Service coordinates the store with scoring, validation and reporting.
type Service struct {
	store repository.Store

	validate   *validator.Validate
	translator ut.Translator

	now           func() time.Time
	newID         func() string
	backupVersion string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the time source used for timestamps and report periods.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBackupVersion sets the version written into exported backups.
func WithBackupVersion(v string) Option {
	return func(s *Service) {
		if v != "" {
			s.backupVersion = v
		}
	}
}

// withIDGenerator replaces the action item id source in tests.
func withIDGenerator(f func() string) Option {
	return func(s *Service) {
		if f != nil {
			s.newID = f
		}
	}
}

// New creates a service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:         store,
		now:           time.Now,
		newID:         newActionItemID,
		backupVersion: backup.DefaultVersion,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validate, s.translator = newValidator()
	return s
}
