//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"steamledger/internal"
	"steamledger/internal/controllers"
	"steamledger/internal/notionapi"
	"steamledger/internal/providers"
	"steamledger/internal/services"
	"steamledger/internal/steamapi"
	"steamledger/internal/storage"
	"steamledger/internal/storage/interfaces"
	"steamledger/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		provideLogger,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		provideCompressor,
		storage.NewLedgerStore,
		wire.Bind(new(interfaces.LedgerStoreInterface), new(*storage.LedgerStore)),
		storage.NewJournal,
		wire.Bind(new(interfaces.JournalInterface), new(*storage.Journal)),

		steamapi.NewClient,
		wire.Bind(new(services.SourceClientInterface), new(*steamapi.Client)),
		notionapi.NewClient,
		wire.Bind(new(services.RecordStoreClientInterface), new(*notionapi.Client)),

		services.NewCollectorService,
		wire.Bind(new(services.CollectorServiceInterface), new(*services.CollectorService)),
		services.NewMergeService,
		wire.Bind(new(services.MergeServiceInterface), new(*services.MergeService)),
		services.NewDeltaService,
		wire.Bind(new(services.DeltaServiceInterface), new(*services.DeltaService)),
		services.NewSyncService,
		wire.Bind(new(services.SyncServiceInterface), new(*services.SyncService)),
		services.NewJobService,
		wire.Bind(new(services.JobServiceInterface), new(*services.JobService)),
		services.NewScheduler,

		controllers.NewHealthController,
		controllers.NewLedgerController,
		controllers.NewRunController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
