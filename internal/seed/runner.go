package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/architect/internal/domain/model"
	"github.com/okian/architect/pkg/logger"
)

// Target is where generated records are saved. *service.Service satisfies it.
type Target interface {
	AddTeacher(ctx context.Context, t model.Teacher) (model.Teacher, error)
	NewObservationDraft() model.Observation
	SaveObservation(ctx context.Context, o model.Observation) (model.Observation, error)
	NewMeetingDraft(teacherID int64) model.Meeting
	SaveMeeting(ctx context.Context, m model.Meeting) (model.Meeting, error)
}

// Run generates cfg's data set and saves it through target.
// Records go through the normal save path so scores are derived as usual.
func Run(ctx context.Context, target Target, cfg Config, log logger.Logger) (Stats, error) {
	if cfg.Teachers < 0 || cfg.Observations < 0 || cfg.Meetings < 0 {
		return Stats{}, ErrInvalidConfig
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if log == nil {
		log = logger.Nop()
	}

	start := time.Now()
	stats := Stats{}
	g := newGenerator(cfg)

	log.Info(ctx, "seeding demo data",
		logger.Int("teachers", cfg.Teachers),
		logger.Int("observationsPerTeacher", cfg.Observations),
		logger.Int("meetingsPerTeacher", cfg.Meetings),
		logger.Any("seed", cfg.Seed))

	for i := 0; i < cfg.Teachers; i++ {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("seed cancelled: %w", err)
		}
		draft, p := g.teacher(i)
		t, err := target.AddTeacher(ctx, draft)
		if err != nil {
			return stats, fmt.Errorf("seed teacher %d: %w", i, err)
		}
		stats.Teachers++

		for n := 0; n < cfg.Observations; n++ {
			o := g.observation(target.NewObservationDraft(), t, p, n)
			if _, err := target.SaveObservation(ctx, o); err != nil {
				return stats, fmt.Errorf("seed observation %d for teacher %d: %w", n, t.ID, err)
			}
			stats.Observations++
		}

		for n := 0; n < cfg.Meetings; n++ {
			m := g.meeting(target.NewMeetingDraft(t.ID), n)
			if _, err := target.SaveMeeting(ctx, m); err != nil {
				return stats, fmt.Errorf("seed meeting %d for teacher %d: %w", n, t.ID, err)
			}
			stats.Meetings++
		}
	}

	stats.Duration = time.Since(start)
	log.Info(ctx, "seeded demo data",
		logger.Int("teachers", stats.Teachers),
		logger.Int("observations", stats.Observations),
		logger.Int("meetings", stats.Meetings),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}
