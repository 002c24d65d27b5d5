package models

import "time"

// UnknownGameName is used when a source omits the display name.
const UnknownGameName = "Unknown"

type GameRecord struct {
	AppID                  uint32    `json:"appid"`
	Name                   string    `json:"name"`
	PlaytimeForever        int64     `json:"playtime_forever"`
	PlaytimeWindowsForever int64     `json:"playtime_windows_forever"`
	PlaytimeMacForever     int64     `json:"playtime_mac_forever"`
	PlaytimeLinuxForever   int64     `json:"playtime_linux_forever"`
	PlaytimeDeckForever    int64     `json:"playtime_deck_forever"`
	PlaytimeDisconnected   int64     `json:"playtime_disconnected"`
	Playtime2Weeks         int64     `json:"playtime_2weeks"`
	LastPlayedAt           time.Time `json:"last_played_at"`
	CapturedAt             time.Time `json:"captured_at"`
}

// TrackedMinutes is the cumulative play time including sessions recorded
// while connection tracking was unavailable.
func (g *GameRecord) TrackedMinutes() int64 {
	return g.PlaytimeForever + g.PlaytimeDisconnected
}

// Normalize clamps counters to zero and moves LastPlayedAt into loc.
// A zero LastPlayedAt means never played and stays zero.
func (g *GameRecord) Normalize(loc *time.Location) {
	if g.Name == "" {
		g.Name = UnknownGameName
	}
	for _, c := range []*int64{
		&g.PlaytimeForever,
		&g.PlaytimeWindowsForever,
		&g.PlaytimeMacForever,
		&g.PlaytimeLinuxForever,
		&g.PlaytimeDeckForever,
		&g.PlaytimeDisconnected,
		&g.Playtime2Weeks,
	} {
		if *c < 0 {
			*c = 0
		}
	}
	if g.LastPlayedAt.IsZero() || g.LastPlayedAt.Unix() <= 0 {
		g.LastPlayedAt = time.Time{}
	} else if loc != nil {
		g.LastPlayedAt = g.LastPlayedAt.In(loc)
	}
	if loc != nil && !g.CapturedAt.IsZero() {
		g.CapturedAt = g.CapturedAt.In(loc)
	}
}
