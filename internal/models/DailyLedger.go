package models

import (
	"errors"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// LedgerKind names one family of date-keyed tables.
type LedgerKind string

const (
	KindOwned    LedgerKind = "owned"
	KindRecent   LedgerKind = "recent"
	KindActivity LedgerKind = "activity"
)

const DateKeyLayout = "20060102"

var ErrNotFound = errors.New("ledger not found")

// DailyLedger is the set of games captured or reconciled for one calendar
// day in the reporting time zone.
type DailyLedger struct {
	Date  string       `json:"date"`
	Kind  LedgerKind   `json:"kind"`
	Games []GameRecord `json:"games"`
}

// NewDailyLedger builds a ledger keeping the first occurrence of every
// app id. The number of dropped duplicates is returned.
func NewDailyLedger(kind LedgerKind, date time.Time, games []GameRecord) (*DailyLedger, int) {
	seen := roaring.New()
	unique := make([]GameRecord, 0, len(games))
	for _, g := range games {
		if !seen.CheckedAdd(g.AppID) {
			continue
		}
		unique = append(unique, g)
	}
	return &DailyLedger{
		Date:  DateKey(date),
		Kind:  kind,
		Games: unique,
	}, len(games) - len(unique)
}

// AppIDs returns a bitmap of every app id in the ledger.
func (l *DailyLedger) AppIDs() *roaring.Bitmap {
	bm := roaring.New()
	for i := range l.Games {
		bm.Add(l.Games[i].AppID)
	}
	return bm
}

// Index maps app ids to their row.
func (l *DailyLedger) Index() map[uint32]*GameRecord {
	idx := make(map[uint32]*GameRecord, len(l.Games))
	for i := range l.Games {
		idx[l.Games[i].AppID] = &l.Games[i]
	}
	return idx
}

func (l *DailyLedger) Len() int {
	return len(l.Games)
}

// DateKey formats a calendar date as YYYYMMDD.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses YYYYMMDD as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateKeyLayout, key, loc)
}

// DayOf truncates t to midnight of its calendar day in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
