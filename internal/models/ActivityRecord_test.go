package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActivityRecord_IdempotencyKey(t *testing.T) {
	date := time.Date(2024, 3, 9, 0, 0, 0, 0, shanghai)
	a := ActivityRecord{AppID: 10, Name: "Played", ActivityMinutes: 35, ActivityDate: date}

	same := a
	same.ActivityMinutes = 40
	same.Name = "Renamed"
	same.DerivedAt = time.Now()
	assert.Equal(t, a.IdempotencyKey(), same.IdempotencyKey())

	otherDay := a
	otherDay.ActivityDate = date.AddDate(0, 0, 1)
	assert.NotEqual(t, a.IdempotencyKey(), otherDay.IdempotencyKey())

	otherGame := a
	otherGame.AppID = 11
	assert.NotEqual(t, a.IdempotencyKey(), otherGame.IdempotencyKey())
}

func TestNewActivityBatch(t *testing.T) {
	b := NewActivityBatch(time.Date(2024, 3, 10, 0, 0, 0, 0, shanghai), nil)
	assert.Equal(t, "20240310", b.RunDate)
	assert.NotNil(t, b.Records)
	assert.Empty(t, b.Records)
}
