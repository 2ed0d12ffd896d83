package pool

import (
	"context"

	"lendefi/core"
	"lendefi/internal/ledger"
	"lendefi/pkg/id"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// kinked rate curve parameters
var (
	rateMultiplier     = decimal.RequireFromString("0.2")
	rateJumpMultiplier = decimal.RequireFromString("1.5")
	rateKink           = decimal.RequireFromString("0.8")
)

type poolService struct {
	db               core.Txer
	poolStore        core.IPoolStore
	walletService    core.IWalletService
	sysConfigService core.ISysConfigService
	transactionStore core.ITransactionStore
}

// New new liquidity pool service
func New(
	db core.Txer,
	poolStore core.IPoolStore,
	walletService core.IWalletService,
	sysConfigService core.ISysConfigService,
	transactionStore core.ITransactionStore,
) core.IPoolService {
	return &poolService{
		db:               db,
		poolStore:        poolStore,
		walletService:    walletService,
		sysConfigService: sysConfigService,
		transactionStore: transactionStore,
	}
}

// SupplyLiquidity deposits stablecoin and mints proportional shares.
// The mint rate is computed against the pre deposit pool value.
func (s *poolService) SupplyLiquidity(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if paused, err := s.sysConfigService.Paused(ctx); err != nil {
		return decimal.Zero, err
	} else if paused {
		return decimal.Zero, core.ErrPaused
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, core.ErrZeroAmount
	}

	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	share, err := s.poolStore.FindShare(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if share == nil {
		share = &core.Share{UserID: userID, Amount: decimal.Zero}
	}

	minted := ledger.MintShares(amount, pool.TotalShares, pool.Value())

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.walletService.Transfer(ctx, tx, userID, core.PoolAccount, pool.AssetID, amount); err != nil {
			return err
		}

		pool.Balance = pool.Balance.Add(amount)
		pool.TotalSupplied = pool.TotalSupplied.Add(amount)
		pool.TotalShares = pool.TotalShares.Add(minted)
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		share.Amount = share.Amount.Add(minted)
		if err := s.poolStore.SaveShare(ctx, tx, share); err != nil {
			return err
		}

		transaction := &core.Transaction{
			TraceID: id.GenTraceID(),
			Action:  core.ActionSupplyLiquidity,
			UserID:  userID,
			AssetID: pool.AssetID,
			Amount:  amount,
		}
		transaction.SetContext(map[string]interface{}{"shares": minted})
		return s.transactionStore.Create(ctx, tx, transaction)
	})
	if err != nil {
		return decimal.Zero, err
	}

	return minted, nil
}

// RedeemLiquidity burns shares for their proportional claim on the pool
func (s *poolService) RedeemLiquidity(ctx context.Context, userID string, shares decimal.Decimal) (decimal.Decimal, error) {
	if paused, err := s.sysConfigService.Paused(ctx); err != nil {
		return decimal.Zero, err
	} else if paused {
		return decimal.Zero, core.ErrPaused
	}

	if shares.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, core.ErrZeroAmount
	}

	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	share, err := s.poolStore.FindShare(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if share == nil || share.Amount.LessThan(shares) {
		return decimal.Zero, core.ErrInsufficientBalance
	}

	amount := ledger.RedeemValue(shares, pool.TotalShares, pool.Value())
	if amount.GreaterThan(pool.Balance) {
		return decimal.Zero, core.ErrLowLiquidity
	}

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.walletService.Transfer(ctx, tx, core.PoolAccount, userID, pool.AssetID, amount); err != nil {
			return err
		}

		pool.Balance = pool.Balance.Sub(amount)
		pool.TotalShares = pool.TotalShares.Sub(shares)
		pool.TotalSupplied = pool.TotalSupplied.Sub(amount)
		if pool.TotalSupplied.IsNegative() {
			pool.TotalSupplied = decimal.Zero
		}
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		share.Amount = share.Amount.Sub(shares)
		if err := s.poolStore.SaveShare(ctx, tx, share); err != nil {
			return err
		}

		transaction := &core.Transaction{
			TraceID: id.GenTraceID(),
			Action:  core.ActionRedeemLiquidity,
			UserID:  userID,
			AssetID: pool.AssetID,
			Amount:  amount,
		}
		transaction.SetContext(map[string]interface{}{"shares": shares})
		return s.transactionStore.Create(ctx, tx, transaction)
	})
	if err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

// GetUtilization total borrow over total supplied liquidity, zero when the
// pool is empty
func (s *poolService) GetUtilization(ctx context.Context) (decimal.Decimal, error) {
	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return ledger.Utilization(pool.TotalBorrow, pool.TotalSupplied), nil
}

// CurBorrowRate kinked annual borrow rate at current utilization
func (s *poolService) CurBorrowRate(ctx context.Context) (decimal.Decimal, error) {
	utilization, err := s.GetUtilization(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	cfg, err := s.sysConfigService.Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	base := decimal.New(cfg.BorrowRate, -6)
	return ledger.BorrowRatePerYear(utilization, base, rateMultiplier, rateJumpMultiplier, rateKink), nil
}

func (s *poolService) Pool(ctx context.Context) (*core.Pool, error) {
	return s.poolStore.Load(ctx)
}
