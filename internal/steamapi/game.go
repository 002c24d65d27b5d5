package steamapi

import (
	"steamledger/internal/models"
	"time"
)

// ToRecord applies the default-if-missing rules once: absent counters are
// zero, an absent name is models.UnknownGameName and rtime_last_played is
// converted from unix seconds into loc.
func (g Game) ToRecord(capturedAt time.Time, loc *time.Location) models.GameRecord {
	rec := models.GameRecord{
		AppID:                  g.AppID,
		Name:                   models.UnknownGameName,
		PlaytimeForever:        deref(g.PlaytimeForever),
		PlaytimeWindowsForever: deref(g.PlaytimeWindowsForever),
		PlaytimeMacForever:     deref(g.PlaytimeMacForever),
		PlaytimeLinuxForever:   deref(g.PlaytimeLinuxForever),
		PlaytimeDeckForever:    deref(g.PlaytimeDeckForever),
		PlaytimeDisconnected:   deref(g.PlaytimeDisconnected),
		Playtime2Weeks:         deref(g.Playtime2Weeks),
		CapturedAt:             capturedAt,
	}
	if g.Name != nil && *g.Name != "" {
		rec.Name = *g.Name
	}
	if ts := deref(g.RTimeLastPlayed); ts > 0 {
		rec.LastPlayedAt = time.Unix(ts, 0)
	}
	rec.Normalize(loc)
	return rec
}

// ToRecords converts a whole response.
func ToRecords(games []Game, capturedAt time.Time, loc *time.Location) []models.GameRecord {
	records := make([]models.GameRecord, 0, len(games))
	for _, g := range games {
		records = append(records, g.ToRecord(capturedAt, loc))
	}
	return records
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
