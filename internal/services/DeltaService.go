package services

import (
	"errors"
	"fmt"
	"steamledger/internal/models"
	"steamledger/internal/providers"
	"steamledger/internal/storage/interfaces"
	"steamledger/internal/structures"
	"time"
)

// DeltaService derives yesterday's play per game from the owned ledgers of
// the run date and the day before.
type DeltaService struct {
	store   interfaces.LedgerStoreInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
	loc     *time.Location
	now     func() time.Time
}

func NewDeltaService(conf *structures.Config, store interfaces.LedgerStoreInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) *DeltaService {
	return &DeltaService{
		store:   store,
		metrics: metrics,
		logger:  logger,
		loc:     conf.Location,
		now:     time.Now,
	}
}

// Calculate diffs the run date's ledger against the previous day's and
// persists the surviving records under the run date. Without either ledger
// nothing is emitted or persisted and no error is returned.
func (s *DeltaService) Calculate(runDate time.Time) (models.DeltaResult, error) {
	result := models.DeltaResult{Records: make([]models.ActivityRecord, 0)}
	yesterday := runDate.AddDate(0, 0, -1)

	today, err := s.store.ReadLedger(models.KindOwned, runDate)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Warnf(providers.TypeDelta, "No ledger for %s, nothing to derive", models.DateKey(runDate))
		return result, nil
	}
	if err != nil {
		return result, err
	}

	prev, err := s.store.ReadLedger(models.KindOwned, yesterday)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Warnf(providers.TypeDelta, "No baseline ledger for %s, no activity derived", models.DateKey(yesterday))
		return result, nil
	}
	if err != nil {
		return result, err
	}

	result.HasBaseline = true
	result.Records, result.Dropped = Derive(today, prev, yesterday, s.now().In(s.loc))
	result.Emitted = len(result.Records)

	if err := s.store.WriteActivity(models.NewActivityBatch(runDate, result.Records)); err != nil {
		return result, fmt.Errorf("write activity batch: %w", err)
	}

	var total int64
	for _, r := range result.Records {
		total += r.ActivityMinutes
	}
	s.metrics.AddActivityMinutes(total)
	if result.Dropped > 0 {
		s.logger.Warnf(providers.TypeDelta, "Suppressed %d games whose counters went backwards", result.Dropped)
	}
	s.logger.Infof(providers.TypeDelta, "Derived activity for %s: games=%d minutes=%d", yesterday.Format(models.ActivityDateLayout), result.Emitted, total)
	return result, nil
}

// Derive left-joins today onto yesterday by app id. A game missing from
// yesterday contributes its full tracked total. Rows with no positive
// delta are left out; the second return value counts the negative ones.
func Derive(today, yesterday *models.DailyLedger, activityDate, derivedAt time.Time) ([]models.ActivityRecord, int) {
	baseline := yesterday.Index()
	records := make([]models.ActivityRecord, 0)
	negative := 0

	for i := range today.Games {
		g := &today.Games[i]
		minutes := g.TrackedMinutes()
		if prev, ok := baseline[g.AppID]; ok {
			minutes -= prev.TrackedMinutes()
		}
		if minutes < 0 {
			negative++
		}
		if minutes <= 0 {
			continue
		}
		records = append(records, models.ActivityRecord{
			AppID:           g.AppID,
			Name:            g.Name,
			ActivityMinutes: minutes,
			ActivityDate:    activityDate,
			DerivedAt:       derivedAt,
		})
	}
	return records, negative
}
