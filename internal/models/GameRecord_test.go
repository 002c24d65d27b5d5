package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGameRecord_TrackedMinutes(t *testing.T) {
	g := GameRecord{PlaytimeForever: 130, PlaytimeDisconnected: 5}
	assert.Equal(t, int64(135), g.TrackedMinutes())
}

func TestGameRecord_Normalize(t *testing.T) {
	g := GameRecord{
		AppID:                7,
		PlaytimeForever:      -1,
		PlaytimeDisconnected: -2,
		Playtime2Weeks:       15,
		LastPlayedAt:         time.Unix(1710000000, 0).UTC(),
		CapturedAt:           time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
	}

	g.Normalize(shanghai)

	assert.Equal(t, UnknownGameName, g.Name)
	assert.Zero(t, g.PlaytimeForever)
	assert.Zero(t, g.PlaytimeDisconnected)
	assert.Equal(t, int64(15), g.Playtime2Weeks)
	assert.Equal(t, shanghai, g.LastPlayedAt.Location())
	assert.Equal(t, int64(1710000000), g.LastPlayedAt.Unix())
	assert.Equal(t, 11, g.CapturedAt.Day())
}

func TestGameRecord_NormalizeNeverPlayed(t *testing.T) {
	g := GameRecord{Name: "Idle", LastPlayedAt: time.Unix(0, 0)}
	g.Normalize(shanghai)
	assert.True(t, g.LastPlayedAt.IsZero())
	assert.Equal(t, "Idle", g.Name)
}
