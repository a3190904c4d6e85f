package service

import (
	"context"
	"fmt"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/internal/domain/reports"
)

// TeacherProfile is everything recorded about one teacher.
type TeacherProfile struct {
	Teacher      model.Teacher          `json:"teacher"`
	Observations []model.Observation    `json:"observations"`
	Meetings     []model.Meeting        `json:"meetings"`
	Summary      reports.TeacherSummary `json:"summary"`
	ActionItems  reports.Scoreboard     `json:"actionItems"`
}

// Dashboard builds the overview for the current month.
func (s *Service) Dashboard(ctx context.Context) (reports.Dashboard, error) {
	teachers, err := s.store.Teachers(ctx)
	if err != nil {
		return reports.Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	obs, err := s.store.Observations(ctx)
	if err != nil {
		return reports.Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	return reports.BuildDashboard(teachers, obs, s.now()), nil
}

// SchoolWide summarizes every observation.
func (s *Service) SchoolWide(ctx context.Context) (reports.SchoolSummary, error) {
	obs, err := s.store.Observations(ctx)
	if err != nil {
		return reports.SchoolSummary{}, fmt.Errorf("school report: %w", err)
	}
	return reports.SchoolWide(obs), nil
}

// TeacherComparison ranks teachers by average score.
func (s *Service) TeacherComparison(ctx context.Context) ([]reports.TeacherSummary, error) {
	teachers, err := s.store.Teachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("teacher comparison: %w", err)
	}
	obs, err := s.store.Observations(ctx)
	if err != nil {
		return nil, fmt.Errorf("teacher comparison: %w", err)
	}
	return reports.CompareTeachers(teachers, obs), nil
}

// DomainAnalysis ranks framework domains by average score.
func (s *Service) DomainAnalysis(ctx context.Context) ([]reports.DomainSummary, error) {
	obs, err := s.store.Observations(ctx)
	if err != nil {
		return nil, fmt.Errorf("domain analysis: %w", err)
	}
	return reports.AnalyzeDomains(obs), nil
}

// TeacherProfile gathers a teacher with their observations, meetings and
// action item progress.
func (s *Service) TeacherProfile(ctx context.Context, id int64) (TeacherProfile, error) {
	t, err := s.Teacher(ctx, id)
	if err != nil {
		return TeacherProfile{}, err
	}
	obs, err := s.ObservationsForTeacher(ctx, id)
	if err != nil {
		return TeacherProfile{}, err
	}
	ms, err := s.MeetingsForTeacher(ctx, id)
	if err != nil {
		return TeacherProfile{}, err
	}

	p := TeacherProfile{
		Teacher:      t,
		Observations: obs,
		Meetings:     ms,
		ActionItems:  reports.ActionItems(ms),
	}
	if sums := reports.CompareTeachers([]model.Teacher{t}, obs); len(sums) == 1 {
		p.Summary = sums[0]
	}
	return p, nil
}
