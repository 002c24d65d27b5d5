package services

import (
	"context"
	"fmt"
	"steamledger/internal/models"
	"steamledger/internal/providers"
	"steamledger/internal/steamapi"
	"steamledger/internal/storage/interfaces"
	"steamledger/internal/structures"
	"time"
)

type CaptureResult struct {
	Owned  bool
	Recent bool
}

// CollectorService captures both source views for the run date and stores
// them as the owned and recent ledgers.
type CollectorService struct {
	client  SourceClientInterface
	store   interfaces.LedgerStoreInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
	loc     *time.Location
	now     func() time.Time
}

func NewCollectorService(conf *structures.Config, client SourceClientInterface, store interfaces.LedgerStoreInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) *CollectorService {
	return &CollectorService{
		client:  client,
		store:   store,
		metrics: metrics,
		logger:  logger,
		loc:     conf.Location,
		now:     time.Now,
	}
}

// Capture fetches and persists both views. A failing source is logged and
// skipped; only a failing store write is returned.
func (c *CollectorService) Capture(ctx context.Context, runDate time.Time) (CaptureResult, error) {
	var res CaptureResult
	capturedAt := c.now().In(c.loc)

	owned, err := c.client.GetOwnedGames(ctx)
	if err != nil {
		c.metrics.IncCaptures(string(models.KindOwned), "error")
		c.logger.Errorf(providers.TypeCollect, "Owned games capture skipped: %s", err)
	} else {
		if err := c.persist(models.KindOwned, runDate, owned, capturedAt); err != nil {
			return res, err
		}
		res.Owned = true
	}

	recent, err := c.client.GetRecentlyPlayedGames(ctx)
	if err != nil {
		c.metrics.IncCaptures(string(models.KindRecent), "error")
		c.logger.Errorf(providers.TypeCollect, "Recently played capture skipped: %s", err)
	} else {
		if err := c.persist(models.KindRecent, runDate, recent, capturedAt); err != nil {
			return res, err
		}
		res.Recent = true
	}

	return res, nil
}

func (c *CollectorService) persist(kind models.LedgerKind, runDate time.Time, games []steamapi.Game, capturedAt time.Time) error {
	records := steamapi.ToRecords(games, capturedAt, c.loc)
	ledger, dups := models.NewDailyLedger(kind, runDate, records)
	if dups > 0 {
		c.logger.Warnf(providers.TypeCollect, "Dropped %d duplicate app ids from %s capture", dups, kind)
	}
	if err := c.store.WriteLedger(ledger); err != nil {
		return fmt.Errorf("write %s ledger: %w", kind, err)
	}
	c.metrics.IncCaptures(string(kind), "ok")
	c.logger.Infof(providers.TypeCollect, "Captured %s ledger %s: games=%d", kind, ledger.Date, ledger.Len())
	return nil
}
