package rest

import (
	"errors"
	"net/http"

	"lendefi/core"
	"lendefi/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	assetStore core.IAssetStore,
	positionStore core.IPositionStore,
	transactionStore core.ITransactionStore,
	assetService core.IAssetService,
	positionService core.IPositionService,
	poolService core.IPoolService,
	priceService core.IPriceOracleService,
	sysConfigService core.ISysConfigService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/assets", allAssetsHandler(assetStore, priceService))
	router.Get("/assets/{asset_id}", assetHandler(assetService, priceService))
	router.Get("/tiers", tierRatesHandler(assetService))
	router.Get("/pool", poolHandler(poolService))
	router.Get("/config", configHandler(sysConfigService))
	router.Get("/positions", positionsHandler(positionStore, positionService))
	router.Get("/transactions", transactionsHandler(transactionStore))

	return router
}
