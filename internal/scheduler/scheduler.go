package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/proof-of-corn/corncheck/internal/check"
)

// Scheduler runs the daily check at a fixed local time when the process is
// left running in serve mode.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *check.Service
	checkTime string // "HH:MM" local time
}

// New creates a new Scheduler.
func New(service *check.Service, checkTime string) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	return &Scheduler{
		scheduler: s,
		service:   service,
		checkTime: checkTime,
	}
}

// Start schedules the daily job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.checkTime).Do(func() {
		log.Println("scheduler: running daily planting check")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		rec, logPath, err := s.service.RunOnce(ctx)
		if err != nil {
			log.Printf("scheduler: daily check failed: %v", err)
			return
		}
		log.Printf("scheduler: %s — logged to %s", rec.Decision.Action, logPath)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
