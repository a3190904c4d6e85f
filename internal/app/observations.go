package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/reports"
	"github.com/okian/architect/internal/domain/rubric"
	"github.com/okian/architect/internal/domain/scoring"
	"github.com/okian/architect/pkg/logger"
	"github.com/okian/architect/pkg/metrics"
)

// NewObservationDraft returns an empty observation holding a fresh copy of
// the framework, dated now.
func (s *Service) NewObservationDraft() model.Observation {
	now := s.now()
	return model.Observation{
		Date:    now.Format("2006-01-02"),
		Time:    now.Format("15:04"),
		Domains: rubric.Framework(),
	}
}

// ScoreDraft computes the live score of unsaved ratings.
func (s *Service) ScoreDraft(domains []model.Domain) scoring.Result {
	return scoring.Evaluate(domains)
}

func normalizeObservation(o *model.Observation) {
	for _, f := range []*string{
		&o.ObserverName, &o.Date, &o.Time, &o.ClassName, &o.SubjectTopic, &o.LessonType,
		&o.FollowUpDate,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// SaveObservation validates o, derives its score and level, and stores it.
// A zero id creates a record; any other id replaces the stored record,
// keeping its creation time. Client supplied scores are ignored.
func (s *Service) SaveObservation(ctx context.Context, o model.Observation) (model.Observation, error) {
	o = o.Clone()
	normalizeObservation(&o)
	if err := s.check("observation", o); err != nil {
		return model.Observation{}, err
	}
	teacher, err := s.existingTeacher(ctx, "observation", o.TeacherID)
	if err != nil {
		return model.Observation{}, err
	}
	o.TeacherName = teacher.Name
	res := scoring.Apply(&o)

	now := s.now()
	created := o.ID == 0
	if created {
		o.CreatedAt, o.UpdatedAt = now, now
		if _, err := s.store.AddObservation(ctx, &o); err != nil {
			return model.Observation{}, fmt.Errorf("add observation: %w", err)
		}
	} else {
		prev, err := s.store.Observation(ctx, o.ID)
		if err != nil {
			return model.Observation{}, fmt.Errorf("update observation %d: %w", o.ID, err)
		}
		o.CreatedAt, o.UpdatedAt = prev.CreatedAt, now
		if err := s.store.UpdateObservation(ctx, o); err != nil {
			return model.Observation{}, fmt.Errorf("update observation %d: %w", o.ID, err)
		}
	}

	metrics.RecordObservationSaved(created, o.OverallScore, string(o.PerformanceLevel))
	s.logger.Info(ctx, "observation saved",
		logger.Int64("id", o.ID),
		logger.Int64("teacher_id", o.TeacherID),
		logger.Float64("overall_score", o.OverallScore),
		logger.String("level", string(o.PerformanceLevel)),
		logger.Float64("progress", res.Progress),
		logger.Bool("created", created))
	return o, nil
}

// Observations lists every observation, newest first.
func (s *Service) Observations(ctx context.Context) ([]model.Observation, error) {
	obs, err := s.store.Observations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	reports.SortObservationsNewestFirst(obs)
	return obs, nil
}

// Observation returns one observation.
func (s *Service) Observation(ctx context.Context, id int64) (model.Observation, error) {
	o, err := s.store.Observation(ctx, id)
	if err != nil {
		return model.Observation{}, fmt.Errorf("get observation %d: %w", id, err)
	}
	return o, nil
}

// DeleteObservation removes an observation; absent ids are not an error.
func (s *Service) DeleteObservation(ctx context.Context, id int64) error {
	if err := s.store.DeleteObservation(ctx, id); err != nil {
		return fmt.Errorf("delete observation %d: %w", id, err)
	}
	s.logger.Info(ctx, "observation deleted", logger.Int64("id", id))
	return nil
}

// ObservationsForTeacher lists one teacher's observations, newest first.
func (s *Service) ObservationsForTeacher(ctx context.Context, teacherID int64) ([]model.Observation, error) {
	obs, err := s.store.ObservationsForTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list observations of teacher %d: %w", teacherID, err)
	}
	reports.SortObservationsNewestFirst(obs)
	return obs, nil
}
