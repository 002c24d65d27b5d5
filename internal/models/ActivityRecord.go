package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const ActivityDateLayout = "2006-01-02"

// activityNamespace scopes idempotency keys of activity records.
var activityNamespace = uuid.MustParse("6f1c2a8e-4b7d-5e39-9a0c-3d2f8b71e654")

type ActivityRecord struct {
	AppID           uint32    `json:"appid"`
	Name            string    `json:"name"`
	ActivityMinutes int64     `json:"activity_minutes"`
	ActivityDate    time.Time `json:"activity_date"`
	DerivedAt       time.Time `json:"derived_at"`
}

// IdempotencyKey is stable for one game on one activity date.
func (a ActivityRecord) IdempotencyKey() uuid.UUID {
	return uuid.NewSHA1(activityNamespace, []byte(strconv.FormatUint(uint64(a.AppID), 10)+":"+a.ActivityDate.Format(ActivityDateLayout)))
}

// ActivityBatch holds the records derived by one run, keyed by the run date.
type ActivityBatch struct {
	RunDate string           `json:"run_date"`
	Records []ActivityRecord `json:"records"`
}

func NewActivityBatch(runDate time.Time, records []ActivityRecord) *ActivityBatch {
	if records == nil {
		records = make([]ActivityRecord, 0)
	}
	return &ActivityBatch{
		RunDate: DateKey(runDate),
		Records: records,
	}
}
