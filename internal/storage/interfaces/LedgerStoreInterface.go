package interfaces

import (
	"steamledger/internal/models"
	"time"
)

// LedgerStoreInterface persists date-keyed tables. Reads of a missing
// table fail with models.ErrNotFound.
type LedgerStoreInterface interface {
	WriteLedger(ledger *models.DailyLedger) error
	ReadLedger(kind models.LedgerKind, date time.Time) (*models.DailyLedger, error)
	WriteActivity(batch *models.ActivityBatch) error
	ReadActivity(date time.Time) (*models.ActivityBatch, error)
	ListDates(kind models.LedgerKind) ([]time.Time, error)
}
