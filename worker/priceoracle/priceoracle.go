package priceoracle

import (
	"context"
	"encoding/json"
	"time"

	"lendefi/core"
	"lendefi/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Worker polls the external price feed and persists the latest quote of
// every listed asset
type Worker struct {
	worker.TickWorker
	db                 core.Txer
	assetStore         core.IAssetStore
	priceStore         core.IPriceStore
	priceOracleService core.IPriceOracleService
}

// New new price oracle worker
func New(
	delay time.Duration,
	db core.Txer,
	assetStore core.IAssetStore,
	priceStore core.IPriceStore,
	priceOracleService core.IPriceOracleService,
) *Worker {
	return &Worker{
		TickWorker: worker.TickWorker{
			Delay:    delay,
			ErrDelay: 10 * time.Second,
		},
		db:                 db,
		assetStore:         assetStore,
		priceStore:         priceStore,
		priceOracleService: priceOracleService,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	assets, err := w.assetStore.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("fetch all assets")
		return err
	}

	now := time.Now()
	var g errgroup.Group
	for _, asset := range assets {
		if !asset.Active {
			continue
		}

		asset := asset
		g.Go(func() error {
			return w.pullPrice(ctx, asset, now)
		})
	}

	return g.Wait()
}

func (w *Worker) pullPrice(ctx context.Context, asset *core.Asset, at time.Time) error {
	log := logger.FromContext(ctx).WithField("asset", asset.Symbol)

	oracleAssetID := asset.OracleAssetID
	if oracleAssetID == "" {
		oracleAssetID = asset.AssetID
	}

	ticker, err := w.priceOracleService.PullPriceTicker(ctx, oracleAssetID, at)
	if err != nil {
		log.WithError(err).Errorln("pull price ticker")
		return err
	}

	if ticker.Price.LessThanOrEqual(decimal.Zero) {
		log.Errorln("feed returned a non positive price, skipped")
		return nil
	}

	content, _ := json.Marshal(ticker)
	price := &core.Price{
		AssetID:   asset.AssetID,
		Price:     ticker.Price,
		PriceTime: ticker.UpdatedAt,
		Content:   types.JSONText(content),
	}

	return w.db.Tx(func(tx *db.DB) error {
		return w.priceStore.Save(ctx, tx, price)
	})
}
