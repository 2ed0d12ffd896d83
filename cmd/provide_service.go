package cmd

import (
	"lendefi/core"
	"lendefi/internal/ledger"
	assetservice "lendefi/service/asset"
	"lendefi/service/flashloan"
	"lendefi/service/oracle"
	poolservice "lendefi/service/pool"
	positionservice "lendefi/service/position"
	"lendefi/service/sysconfig"
	walletservice "lendefi/service/wallet"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
)

func provideWalletService(walletStore core.IWalletStore) core.IWalletService {
	return walletservice.New(walletStore)
}

func provideSysConfigService(system *core.System, propertyStore property.Store) core.ISysConfigService {
	return sysconfig.New(system, propertyStore)
}

func providePriceService(priceStore core.IPriceStore) core.IPriceOracleService {
	return oracle.New(provideConfig(), priceStore)
}

func provideAssetService(db *db.DB, system *core.System, assetStore core.IAssetStore, tierStore core.ITierStore) core.IAssetService {
	return assetservice.New(db, system, assetStore, tierStore)
}

func providePoolService(
	db *db.DB,
	poolStore core.IPoolStore,
	walletService core.IWalletService,
	sysConfigService core.ISysConfigService,
	transactionStore core.ITransactionStore,
) core.IPoolService {
	return poolservice.New(db, poolStore, walletService, sysConfigService, transactionStore)
}

func providePositionService(
	db *db.DB,
	assetStore core.IAssetStore,
	tierStore core.ITierStore,
	positionStore core.IPositionStore,
	poolStore core.IPoolStore,
	priceService core.IPriceOracleService,
	walletService core.IWalletService,
	sysConfigService core.ISysConfigService,
	transactionStore core.ITransactionStore,
) core.IPositionService {
	return positionservice.New(
		db,
		assetStore,
		tierStore,
		positionStore,
		poolStore,
		priceService,
		walletService,
		sysConfigService,
		transactionStore,
		ledger.LinearModel{},
	)
}

func provideFlashLoanService(
	db *db.DB,
	poolStore core.IPoolStore,
	walletService core.IWalletService,
	sysConfigService core.ISysConfigService,
	transactionStore core.ITransactionStore,
) core.IFlashLoanService {
	return flashloan.New(db, poolStore, walletService, sysConfigService, transactionStore)
}
