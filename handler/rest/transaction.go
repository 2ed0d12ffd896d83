package rest

import (
	"net/http"

	"lendefi/core"
	"lendefi/handler/param"
	"lendefi/handler/render"
)

// response the ledger journal
func transactionsHandler(transactionStr core.ITransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			User  string `json:"user"`
			From  uint64 `json:"from"`
			Limit int    `json:"limit"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		limit := params.Limit
		if limit <= 0 || limit > 500 {
			limit = 500
		}

		var (
			transactions []*core.Transaction
			err          error
		)
		if params.User != "" {
			transactions, err = transactionStr.FindByUser(ctx, params.User, limit)
		} else {
			transactions, err = transactionStr.List(ctx, params.From, limit)
		}
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transactions)
	}
}
