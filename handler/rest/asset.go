package rest

import (
	"net/http"

	"lendefi/core"
	"lendefi/handler/render"
	"lendefi/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func allAssetsHandler(assetStr core.IAssetStore, priceSrv core.IPriceOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		assets, err := assetStr.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		assetViews := make([]*views.Asset, 0, len(assets))
		for _, a := range assets {
			price, err := priceSrv.GetPrice(ctx, a.AssetID)
			if err != nil {
				price = decimal.Zero
			}

			assetViews = append(assetViews, &views.Asset{Asset: *a, Price: price})
		}

		render.JSON(w, assetViews)
	}
}

func assetHandler(assetSrv core.IAssetService, priceSrv core.IPriceOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		asset, err := assetSrv.GetAssetInfo(ctx, chi.URLParam(r, "asset_id"))
		if err != nil {
			if err == core.ErrAssetNotListed {
				render.NotFoundRequest(w, err)
				return
			}

			render.BadRequest(w, err)
			return
		}

		price, err := priceSrv.GetPrice(ctx, asset.AssetID)
		if err != nil {
			price = decimal.Zero
		}

		render.JSON(w, &views.Asset{Asset: *asset, Price: price})
	}
}

func tierRatesHandler(assetSrv core.IAssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rates, err := assetSrv.GetTierRates(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, rates)
	}
}
