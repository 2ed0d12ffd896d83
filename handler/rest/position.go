package rest

import (
	"errors"
	"net/http"
	"time"

	"lendefi/core"
	"lendefi/handler/param"
	"lendefi/handler/render"
	"lendefi/handler/views"

	"github.com/shopspring/decimal"
)

func positionsHandler(positionStr core.IPositionStore, positionSrv core.IPositionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			User string `json:"user"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.User == "" {
			render.BadRequest(w, errors.New("user required"))
			return
		}

		positions, err := positionStr.FindByUser(ctx, params.User)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		positionViews := make([]*views.Position, 0, len(positions))
		for _, p := range positions {
			positionViews = append(positionViews, getPositionView(r, p, positionStr, positionSrv))
		}

		render.JSON(w, positionViews)
	}
}

func getPositionView(r *http.Request, position *core.Position, positionStr core.IPositionStore, positionSrv core.IPositionService) *views.Position {
	ctx := r.Context()

	collaterals, err := positionStr.ListCollaterals(ctx, position.UserID, position.PositionID)
	if err != nil {
		collaterals = nil
	}

	tier, err := positionSrv.GetPositionTier(ctx, position.UserID, position.PositionID)
	if err != nil {
		tier = core.TierStable
	}

	limit, err := positionSrv.CalculateCreditLimit(ctx, position.UserID, position.PositionID)
	if err != nil {
		limit = decimal.Zero
	}

	debt, err := positionSrv.CalculateDebtWithInterest(ctx, position.UserID, position.PositionID, time.Now().UTC())
	if err != nil {
		debt = position.Debt()
	}

	hf, err := positionSrv.HealthFactor(ctx, position.UserID, position.PositionID)
	if err != nil {
		hf = decimal.Zero
	}

	return &views.Position{
		Position:     *position,
		Collaterals:  collaterals,
		Tier:         tier.String(),
		CreditLimit:  limit,
		Debt:         debt,
		HealthFactor: hf,
	}
}
