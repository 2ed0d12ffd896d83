package rest

import (
	"net/http"

	"lendefi/core"
	"lendefi/handler/render"
	"lendefi/handler/views"

	"github.com/shopspring/decimal"
)

func poolHandler(poolSrv core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pool, err := poolSrv.Pool(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		utilization, err := poolSrv.GetUtilization(ctx)
		if err != nil {
			utilization = decimal.Zero
		}

		borrowRate, err := poolSrv.CurBorrowRate(ctx)
		if err != nil {
			borrowRate = decimal.Zero
		}

		render.JSON(w, &views.Pool{
			Pool:        *pool,
			Utilization: utilization,
			BorrowRate:  borrowRate,
		})
	}
}

func configHandler(sysConfigSrv core.ISysConfigService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cfg, err := sysConfigSrv.Get(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		paused, err := sysConfigSrv.Paused(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{
			"config": cfg,
			"paused": paused,
		})
	}
}
