package internal

import (
	"net/http"
	"steamledger/internal/controllers"
	"steamledger/internal/providers"
)

func InitRoutes(ledgerController *controllers.LedgerController, runController *controllers.RunController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/ledger", http.HandlerFunc(ledgerController.GetLedger))
	routers.Get("/activity", http.HandlerFunc(ledgerController.GetActivity))
	routers.Post("/run", http.HandlerFunc(runController.TriggerRun))
	return routers
}
