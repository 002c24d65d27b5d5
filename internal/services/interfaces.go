package services

import (
	"context"
	"steamledger/internal/models"
	"steamledger/internal/steamapi"
	"time"
)

// SourceClientInterface is the game-platform API.
type SourceClientInterface interface {
	GetOwnedGames(ctx context.Context) ([]steamapi.Game, error)
	GetRecentlyPlayedGames(ctx context.Context) ([]steamapi.Game, error)
}

// RecordStoreClientInterface is the destination of activity records.
type RecordStoreClientInterface interface {
	CreateEntry(ctx context.Context, rec models.ActivityRecord) error
}

type CollectorServiceInterface interface {
	Capture(ctx context.Context, runDate time.Time) (CaptureResult, error)
}

type MergeServiceInterface interface {
	MergeDay(date time.Time) (models.MergeResult, error)
}

type DeltaServiceInterface interface {
	Calculate(runDate time.Time) (models.DeltaResult, error)
}

type SyncServiceInterface interface {
	Upload(ctx context.Context, records []models.ActivityRecord) models.SyncReport
	UploadAll(ctx context.Context) (models.SyncReport, error)
}

type JobServiceInterface interface {
	Run(ctx context.Context) (*models.RunReport, error)
	Trigger(ctx context.Context) error
	LastReport() *models.RunReport
}
