package models

import "time"

// RunReport summarises one pass of the daily job.
type RunReport struct {
	RunDate        string        `json:"run_date"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	OwnedCaptured  bool          `json:"owned_captured"`
	RecentCaptured bool          `json:"recent_captured"`
	Merge          MergeResult   `json:"merge"`
	Delta          DeltaResult   `json:"delta"`
	Sync           SyncReport    `json:"sync"`
}

type MergeResult struct {
	Skipped bool `json:"skipped"`
	Base    int  `json:"base"`
	Added   int  `json:"added"`
	Total   int  `json:"total"`
}

type DeltaResult struct {
	HasBaseline bool             `json:"has_baseline"`
	Records     []ActivityRecord `json:"-"`
	Emitted     int              `json:"emitted"`
	Dropped     int              `json:"dropped"`
}

type SyncReport struct {
	Attempted   int `json:"attempted"`
	Delivered   int `json:"delivered"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
	RateLimited int `json:"rate_limited"`
}
