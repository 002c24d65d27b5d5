package services

import (
	"context"
	"errors"
	"steamledger/internal/models"
	"steamledger/internal/providers"
	"steamledger/internal/structures"
	"sync"
	"time"
)

var ErrRunInProgress = errors.New("a run is already in progress")

// JobService runs the daily pipeline: capture, merge, delta, upload.
type JobService struct {
	runMu     sync.Mutex
	mu        sync.RWMutex
	collector CollectorServiceInterface
	merger    MergeServiceInterface
	delta     DeltaServiceInterface
	uploader  SyncServiceInterface
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger
	conf      *structures.Config
	now       func() time.Time
	last      *models.RunReport
}

func NewJobService(conf *structures.Config, collector CollectorServiceInterface, merger MergeServiceInterface, delta DeltaServiceInterface, syncService SyncServiceInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) *JobService {
	return &JobService{
		collector: collector,
		merger:    merger,
		delta:     delta,
		uploader:  syncService,
		metrics:   metrics,
		logger:    logger,
		conf:      conf,
		now:       time.Now,
	}
}

// Run executes one pass for the current day in the reporting time zone.
// Recoverable conditions are absorbed by the stages; the returned error is
// a store failure the process should exit on, or ErrRunInProgress.
func (j *JobService) Run(ctx context.Context) (*models.RunReport, error) {
	if !j.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer j.runMu.Unlock()
	return j.run(ctx)
}

// Trigger starts a pass in the background and returns once it holds the
// run lock.
func (j *JobService) Trigger(ctx context.Context) error {
	if !j.runMu.TryLock() {
		return ErrRunInProgress
	}
	go func() {
		defer j.runMu.Unlock()
		if _, err := j.run(ctx); err != nil {
			j.logger.Errorf(providers.TypeApp, "Triggered run failed: %s", err)
		}
	}()
	return nil
}

func (j *JobService) run(ctx context.Context) (*models.RunReport, error) {
	started := j.now()
	runDate := models.DayOf(started, j.conf.Location)
	report := &models.RunReport{
		RunDate:   models.DateKey(runDate),
		StartedAt: started,
	}
	j.logger.Infof(providers.TypeApp, "Starting run for %s", report.RunDate)

	captured, err := j.collector.Capture(ctx, runDate)
	if err != nil {
		return report, err
	}
	report.OwnedCaptured = captured.Owned
	report.RecentCaptured = captured.Recent

	report.Merge, err = j.merger.MergeDay(runDate)
	if err != nil {
		return report, err
	}

	report.Delta, err = j.delta.Calculate(runDate)
	if err != nil {
		return report, err
	}

	report.Sync = j.uploader.Upload(ctx, report.Delta.Records)

	report.Duration = time.Since(started)
	j.metrics.ObserveRunDuration(report.Duration)
	if err := j.metrics.WriteTextfile(j.conf.Metrics.Textfile); err != nil {
		j.logger.Warnf(providers.TypeApp, "Unable to write metrics textfile: %s", err)
	}
	j.mu.Lock()
	j.last = report
	j.mu.Unlock()

	j.logger.Infof(providers.TypeApp, "Run %s finished in %s: merged=%d activity=%d delivered=%d failed=%d",
		report.RunDate, report.Duration, report.Merge.Total, report.Delta.Emitted, report.Sync.Delivered, report.Sync.Failed)
	return report, nil
}

// LastReport returns the report of the last successful run, or nil.
func (j *JobService) LastReport() *models.RunReport {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last
}
