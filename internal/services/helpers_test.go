package services

import (
	"steamledger/internal/models"
	"steamledger/internal/providers"
	"steamledger/internal/structures"
	"time"
)

var shanghai = mustLoad("Asia/Shanghai")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func testConfig() *structures.Config {
	return &structures.Config{
		Location: shanghai,
		RecordStore: structures.RecordStoreConfig{
			Backoff: time.Millisecond,
		},
	}
}

func noopMetrics() providers.MetricsProviderInterface {
	return providers.NewMetricsProvider(&structures.Config{})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, shanghai)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func game(appID uint32, name string, forever, disconnected int64) models.GameRecord {
	return models.GameRecord{
		AppID:                appID,
		Name:                 name,
		PlaytimeForever:      forever,
		PlaytimeDisconnected: disconnected,
	}
}

func ledger(kind models.LedgerKind, date time.Time, games ...models.GameRecord) *models.DailyLedger {
	l, _ := models.NewDailyLedger(kind, date, games)
	return l
}

func appIDs(l *models.DailyLedger) []uint32 {
	return l.AppIDs().ToArray()
}
