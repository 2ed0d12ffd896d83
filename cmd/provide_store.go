package cmd

import (
	"time"

	"lendefi/core"
	"lendefi/store/asset"
	"lendefi/store/pool"
	"lendefi/store/position"
	"lendefi/store/price"
	"lendefi/store/transaction"
	"lendefi/store/wallet"

	"github.com/fox-one/pkg/store/db"
)

func provideAssetStore(db *db.DB) core.IAssetStore {
	return asset.Cache(asset.New(db), time.Minute)
}

func provideTierStore(db *db.DB) core.ITierStore {
	return asset.NewTier(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return position.New(db)
}

func providePoolStore(db *db.DB) core.IPoolStore {
	return pool.New(db)
}

func providePriceStore(db *db.DB) core.IPriceStore {
	return price.New(db)
}

func provideWalletStore(db *db.DB) core.IWalletStore {
	return wallet.New(db)
}

func provideTransactionStore(db *db.DB) core.ITransactionStore {
	return transaction.New(db)
}
