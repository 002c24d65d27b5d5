package services

import (
	"context"
	"steamledger/internal/providers"
	"steamledger/internal/structures"

	"github.com/roylee0704/gron"
	"github.com/roylee0704/gron/xtime"
)

type SchedulerInterface interface {
	Init()
	Stop()
}

// Scheduler triggers the daily job at schedule.at, process local time.
type Scheduler struct {
	config *structures.Config
	logger providers.Logger
	job    JobServiceInterface
	cron   *gron.Cron
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(1*xtime.Day).At(s.config.Schedule.At), s.runJob)
	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Daily run scheduled at %s", s.config.Schedule.At)
}

func (s *Scheduler) runJob() {
	if _, err := s.job.Run(context.Background()); err != nil {
		s.logger.Errorf(providers.TypeApp, "Scheduled run failed: %s", err)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, job JobServiceInterface) SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		job:    job,
	}
}
