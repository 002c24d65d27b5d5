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

// MergeService folds the recently-played ledger into the owned ledger of
// the same day. The owned listing omits shared-library titles that the
// recently-played listing does report.
type MergeService struct {
	store  interfaces.LedgerStoreInterface
	logger providers.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewMergeService(conf *structures.Config, store interfaces.LedgerStoreInterface, logger providers.Logger) *MergeService {
	return &MergeService{
		store:  store,
		logger: logger,
		loc:    conf.Location,
		now:    time.Now,
	}
}

// MergeDay corrects the owned ledger of date in place. A missing owned
// ledger skips the merge; a missing recent ledger counts as empty.
func (s *MergeService) MergeDay(date time.Time) (models.MergeResult, error) {
	owned, err := s.store.ReadLedger(models.KindOwned, date)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Warnf(providers.TypeMerge, "No owned ledger for %s, merge skipped", models.DateKey(date))
		return models.MergeResult{Skipped: true}, nil
	}
	if err != nil {
		return models.MergeResult{}, err
	}

	recent, err := s.store.ReadLedger(models.KindRecent, date)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Infof(providers.TypeMerge, "No recent ledger for %s, owned ledger kept as is", models.DateKey(date))
		recent = &models.DailyLedger{Date: owned.Date, Kind: models.KindRecent}
	} else if err != nil {
		return models.MergeResult{}, err
	}

	merged, added := Merge(owned, recent, s.now().In(s.loc), s.loc)
	if err := s.store.WriteLedger(merged); err != nil {
		return models.MergeResult{}, fmt.Errorf("write merged ledger: %w", err)
	}

	s.logger.Infof(providers.TypeMerge, "Merged ledger %s: base=%d added=%d total=%d", merged.Date, owned.Len(), added, merged.Len())
	return models.MergeResult{
		Base:  owned.Len(),
		Added: added,
		Total: merged.Len(),
	}, nil
}

// Merge returns owned extended with every recent row whose app id owned
// lacks, and the number of rows added. The app id set of owned is taken
// before anything is appended, so duplicate recent rows are added once and
// merging the result again adds nothing.
func Merge(owned, recent *models.DailyLedger, capturedAt time.Time, loc *time.Location) (*models.DailyLedger, int) {
	known := owned.AppIDs()

	missing := make([]models.GameRecord, 0)
	for _, r := range recent.Games {
		if !known.CheckedAdd(r.AppID) {
			continue
		}
		missing = append(missing, models.GameRecord{
			AppID:                  r.AppID,
			Name:                   r.Name,
			PlaytimeForever:        r.PlaytimeForever,
			PlaytimeWindowsForever: r.PlaytimeWindowsForever,
			PlaytimeMacForever:     r.PlaytimeMacForever,
			PlaytimeLinuxForever:   r.PlaytimeLinuxForever,
			PlaytimeDeckForever:    r.PlaytimeDeckForever,
			PlaytimeDisconnected:   r.PlaytimeDisconnected,
			Playtime2Weeks:         r.Playtime2Weeks,
			LastPlayedAt:           r.LastPlayedAt,
			CapturedAt:             capturedAt,
		})
	}

	games := make([]models.GameRecord, 0, len(owned.Games)+len(missing))
	games = append(games, owned.Games...)
	games = append(games, missing...)
	for i := range games {
		games[i].Normalize(loc)
	}

	return &models.DailyLedger{
		Date:  owned.Date,
		Kind:  models.KindOwned,
		Games: games,
	}, len(missing)
}
