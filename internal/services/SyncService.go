package services

import (
	"context"
	"errors"
	"fmt"
	"steamledger/internal/models"
	"steamledger/internal/notionapi"
	"steamledger/internal/providers"
	"steamledger/internal/storage/interfaces"
	"steamledger/internal/structures"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// maxAttempts is the first try plus one retry after a rate limit.
const maxAttempts = 2

// SyncService delivers activity records to the record store one entry at
// a time. Delivery is at-least-once: the journal skips records it knows
// were accepted, but a crash between acceptance and journaling resends.
type SyncService struct {
	client  RecordStoreClientInterface
	store   interfaces.LedgerStoreInterface
	journal interfaces.JournalInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
	backoff time.Duration
	now     func() time.Time
}

func NewSyncService(conf *structures.Config, client RecordStoreClientInterface, store interfaces.LedgerStoreInterface, journal interfaces.JournalInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) *SyncService {
	return &SyncService{
		client:  client,
		store:   store,
		journal: journal,
		metrics: metrics,
		logger:  logger,
		backoff: conf.RecordStore.Backoff,
		now:     time.Now,
	}
}

// Upload attempts every record in order. A failed record never stops the
// ones after it.
func (s *SyncService) Upload(ctx context.Context, records []models.ActivityRecord) models.SyncReport {
	var report models.SyncReport
	if len(records) == 0 {
		s.logger.Infof(providers.TypeSync, "No activity records to upload")
		return report
	}

	for _, rec := range records {
		key := rec.IdempotencyKey()

		delivered, err := s.journal.Delivered(key)
		if err != nil {
			s.logger.Warnf(providers.TypeSync, "Journal lookup for %d failed, uploading anyway: %s", rec.AppID, err)
		}
		if delivered {
			report.Skipped++
			s.metrics.IncUploads("skipped")
			s.logger.Debugf(providers.TypeSync, "Already delivered: %s %s", rec.Name, rec.ActivityDate.Format(models.ActivityDateLayout))
			continue
		}

		report.Attempted++
		limited, err := s.deliver(ctx, rec)
		if limited {
			report.RateLimited++
		}
		if err != nil {
			report.Failed++
			s.metrics.IncUploads("failed")
			s.logger.Errorf(providers.TypeSync, "Upload failed: %s (%d) - %s", rec.Name, rec.AppID, err)
			continue
		}

		report.Delivered++
		s.metrics.IncUploads("delivered")
		s.logger.Infof(providers.TypeSync, "Uploaded: %s - %d min", rec.Name, rec.ActivityMinutes)
		if err := s.journal.MarkDelivered(key, s.now()); err != nil {
			s.logger.Errorf(providers.TypeSync, "Journal write for %d failed, a re-run may duplicate it: %s", rec.AppID, err)
		}
	}

	s.logger.Infof(providers.TypeSync, "Upload completed: attempted=%d delivered=%d skipped=%d failed=%d rate_limited=%d",
		report.Attempted, report.Delivered, report.Skipped, report.Failed, report.RateLimited)
	return report
}

// deliver creates one entry, waiting the fixed backoff and retrying once
// when the store signals a rate limit. Any other failure is final.
func (s *SyncService) deliver(ctx context.Context, rec models.ActivityRecord) (bool, error) {
	limited := false
	operation := func() (struct{}, error) {
		err := s.client.CreateEntry(ctx, rec)
		if errors.Is(err, notionapi.ErrRateLimited) {
			limited = true
			return struct{}{}, err
		}
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.backoff)),
		backoff.WithMaxTries(maxAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			s.logger.Warnf(providers.TypeSync, "Rate limited on %s, retrying in %s", rec.Name, wait)
		}),
	)
	return limited, err
}

// UploadAll re-sends every persisted activity batch. Records the journal
// knows about are skipped.
func (s *SyncService) UploadAll(ctx context.Context) (models.SyncReport, error) {
	dates, err := s.store.ListDates(models.KindActivity)
	if err != nil {
		return models.SyncReport{}, fmt.Errorf("list activity batches: %w", err)
	}

	records := make([]models.ActivityRecord, 0)
	seen := make(map[string]struct{})
	for _, date := range dates {
		batch, err := s.store.ReadActivity(date)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return models.SyncReport{}, err
		}
		for _, rec := range batch.Records {
			key := rec.IdempotencyKey().String()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			records = append(records, rec)
		}
	}

	s.logger.Infof(providers.TypeSync, "Recovery upload: batches=%d records=%d", len(dates), len(records))
	return s.Upload(ctx, records), nil
}
