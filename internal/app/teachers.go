package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/reports"
	"github.com/okian/architect/pkg/logger"
)

func normalizeTeacher(t *model.Teacher) {
	t.Name = strings.TrimSpace(t.Name)
	t.Classes = strings.TrimSpace(t.Classes)
	t.Subjects = strings.TrimSpace(t.Subjects)
}

// AddTeacher validates and stores a new roster entry.
func (s *Service) AddTeacher(ctx context.Context, t model.Teacher) (model.Teacher, error) {
	normalizeTeacher(&t)
	if err := s.check("teacher", t); err != nil {
		return model.Teacher{}, err
	}
	t.ID = 0
	t.CreatedAt = s.now()
	if _, err := s.store.AddTeacher(ctx, &t); err != nil {
		return model.Teacher{}, fmt.Errorf("add teacher: %w", err)
	}
	s.logger.Info(ctx, "teacher added", logger.Int64("id", t.ID), logger.String("name", t.Name))
	return t, nil
}

// UpdateTeacher replaces a roster entry, keeping its creation time.
// Names already copied into observations and meetings are left as saved.
func (s *Service) UpdateTeacher(ctx context.Context, t model.Teacher) (model.Teacher, error) {
	normalizeTeacher(&t)
	if err := s.check("teacher", t); err != nil {
		return model.Teacher{}, err
	}
	prev, err := s.store.Teacher(ctx, t.ID)
	if err != nil {
		return model.Teacher{}, fmt.Errorf("update teacher %d: %w", t.ID, err)
	}
	t.CreatedAt = prev.CreatedAt
	if err := s.store.UpdateTeacher(ctx, t); err != nil {
		return model.Teacher{}, fmt.Errorf("update teacher %d: %w", t.ID, err)
	}
	s.logger.Info(ctx, "teacher updated", logger.Int64("id", t.ID))
	return t, nil
}

// DeleteTeacher removes a roster entry. Its observations and meetings stay.
func (s *Service) DeleteTeacher(ctx context.Context, id int64) error {
	if err := s.store.DeleteTeacher(ctx, id); err != nil {
		return fmt.Errorf("delete teacher %d: %w", id, err)
	}
	s.logger.Info(ctx, "teacher deleted", logger.Int64("id", id))
	return nil
}

// Teachers lists the roster by name.
func (s *Service) Teachers(ctx context.Context) ([]model.Teacher, error) {
	ts, err := s.store.Teachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	reports.SortTeachersByName(ts)
	return ts, nil
}

// Teacher returns one roster entry.
func (s *Service) Teacher(ctx context.Context, id int64) (model.Teacher, error) {
	t, err := s.store.Teacher(ctx, id)
	if err != nil {
		return model.Teacher{}, fmt.Errorf("get teacher %d: %w", id, err)
	}
	return t, nil
}

// existingTeacher loads the teacher a record refers to, reporting an
// unknown id as a validation failure of entity.
func (s *Service) existingTeacher(ctx context.Context, entity string, id int64) (model.Teacher, error) {
	t, err := s.store.Teacher(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return model.Teacher{}, invalid(entity, "teacherId", fmt.Sprintf("teacher %d does not exist", id))
	}
	if err != nil {
		return model.Teacher{}, fmt.Errorf("load teacher %d: %w", id, err)
	}
	return t, nil
}
