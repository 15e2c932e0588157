package timescheduler

import (
	"fmt"
	"time"

	"github.com/arkade-os/nftbridge/internal/core/ports"
	"github.com/go-co-op/gocron"
)

type service struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() ports.SchedulerService {
	svc := gocron.NewScheduler(time.UTC)
	return &service{svc}
}

func (s *service) Start() {
	s.scheduler.StartAsync()
}

func (s *service) Stop() {
	s.scheduler.Stop()
	s.scheduler.Clear()
}

func (s *service) ScheduleTaskOnce(at int64, task func()) error {
	delay := time.Until(time.Unix(at, 0))
	if delay <= 0 {
		go task()
		return nil
	}

	_, err := s.scheduler.Every(delay).WaitForSchedule().LimitRunsTo(1).Do(task)
	return err
}

func (s *service) ScheduleTaskEvery(interval time.Duration, task func()) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be > 0")
	}

	_, err := s.scheduler.Every(interval).WaitForSchedule().SingletonMode().Do(task)
	return err
}
