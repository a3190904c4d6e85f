package service

import (
	"context"
	"fmt"

	"github.com/okian/architect/internal/adapters/repository"
	"github.com/okian/architect/internal/domain/backup"
	"github.com/okian/architect/pkg/logger"
	"github.com/okian/architect/pkg/metrics"
)

// Export snapshots the whole store into a backup document. Records keep
// their stored identities.
func (s *Service) Export(ctx context.Context) (backup.Document, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return backup.Document{}, fmt.Errorf("export: %w", err)
	}
	doc := backup.New(s.backupVersion, s.now(), snap.Teachers, snap.Observations, snap.Meetings)
	metrics.RecordBackupExport()
	s.logger.Info(ctx, "backup exported",
		logger.Int("teachers", len(doc.Teachers)),
		logger.Int("observations", len(doc.Observations)),
		logger.Int("meetings", len(doc.Meetings)))
	return doc, nil
}

// ExportJSON is Export encoded as indented JSON.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	doc, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return backup.Encode(doc)
}

// Import appends every record of a backup document under new identities.
// Repeating an import duplicates the records. The import is all or nothing.
func (s *Service) Import(ctx context.Context, data []byte) (repository.Counts, error) {
	doc, err := backup.Decode(data)
	if err != nil {
		metrics.RecordBackupImport("invalid", 0, 0, 0)
		return repository.Counts{}, err
	}

	counts, err := s.store.Restore(ctx, repository.Snapshot{
		Teachers:     doc.Teachers,
		Observations: doc.Observations,
		Meetings:     doc.Meetings,
	})
	if err != nil {
		metrics.RecordBackupImport("failed", 0, 0, 0)
		return repository.Counts{}, fmt.Errorf("import: %w", err)
	}

	metrics.RecordBackupImport("ok", counts.Teachers, counts.Observations, counts.Meetings)
	s.logger.Info(ctx, "backup imported",
		logger.String("version", doc.Version),
		logger.Int("teachers", counts.Teachers),
		logger.Int("observations", counts.Observations),
		logger.Int("meetings", counts.Meetings))
	return counts, nil
}

// ClearConfirmation is the phrase ClearAll requires.
const ClearConfirmation = "DELETE"

// ClearAll permanently removes every record. confirm must equal
// ClearConfirmation.
func (s *Service) ClearAll(ctx context.Context, confirm string) error {
	if confirm != ClearConfirmation {
		return ErrNotConfirmed
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	metrics.RecordClearAll()
	s.logger.Warn(ctx, "all records cleared")
	return nil
}
