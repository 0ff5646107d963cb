package seed

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultSchedule = "0 0 2 * * *"

// Scheduler reseeds the current and next year on a cron schedule so that
// walks crossing New Year always find data.
type Scheduler struct {
	seeder  *Seeder
	country string
	log     *zap.Logger
	cron    *cron.Cron
	now     func() time.Time
}

func NewScheduler(seeder *Seeder, country string, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		seeder:  seeder,
		country: country,
		log:     log,
		cron:    cron.New(cron.WithSeconds()),
		now:     time.Now,
	}
}

// Start registers the job and starts the cron loop. schedule uses the
// six-field, seconds-first format.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("holiday seed scheduler started", zap.String("schedule", schedule))
	return nil
}

// Stop halts the loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := s.RunOnce(ctx); err != nil {
		s.log.Error("holiday seeding failed", zap.Error(err))
	}
}

// RunOnce seeds the current and the following year.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	year := s.now().Year()
	for _, y := range []int{year, year + 1} {
		res, err := s.seeder.SeedYear(ctx, y, s.country)
		if err != nil {
			return err
		}
		s.log.Info("holiday seed run",
			zap.Int("year", y),
			zap.Int("inserted", res.Inserted),
			zap.Int("skipped", res.Skipped))
	}
	return nil
}
