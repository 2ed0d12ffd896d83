package position

import (
	"context"
	"time"

	"lendefi/core"
	"lendefi/internal/ledger"
	"lendefi/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type positionService struct {
	db               core.Txer
	assetStore       core.IAssetStore
	tierStore        core.ITierStore
	positionStore    core.IPositionStore
	poolStore        core.IPoolStore
	priceService     core.IPriceOracleService
	walletService    core.IWalletService
	sysConfigService core.ISysConfigService
	transactionStore core.ITransactionStore
	interestModel    ledger.InterestModel
}

// New new position ledger service
func New(
	db core.Txer,
	assetStore core.IAssetStore,
	tierStore core.ITierStore,
	positionStore core.IPositionStore,
	poolStore core.IPoolStore,
	priceService core.IPriceOracleService,
	walletService core.IWalletService,
	sysConfigService core.ISysConfigService,
	transactionStore core.ITransactionStore,
	interestModel ledger.InterestModel,
) core.IPositionService {
	return &positionService{
		db:               db,
		assetStore:       assetStore,
		tierStore:        tierStore,
		positionStore:    positionStore,
		poolStore:        poolStore,
		priceService:     priceService,
		walletService:    walletService,
		sysConfigService: sysConfigService,
		transactionStore: transactionStore,
		interestModel:    interestModel,
	}
}

func (s *positionService) checkPaused(ctx context.Context) error {
	paused, err := s.sysConfigService.Paused(ctx)
	if err != nil {
		return err
	}

	if paused {
		return core.ErrPaused
	}

	return nil
}

// CreatePosition allocates the next sequential position id for the user.
// The asset binds the position only when isolated.
func (s *positionService) CreatePosition(ctx context.Context, userID, assetID string, isolated bool) (*core.Position, error) {
	if err := s.checkPaused(ctx); err != nil {
		return nil, err
	}

	position := &core.Position{
		UserID:        userID,
		Isolated:      isolated,
		Principal:     decimal.Zero,
		InterestOwed:  decimal.Zero,
		LastAccruedAt: time.Now().UTC(),
	}

	if isolated {
		asset, err := s.assetStore.Find(ctx, assetID)
		if err != nil {
			return nil, err
		}

		if asset == nil || !asset.Active {
			return nil, core.ErrAssetNotListed
		}

		position.IsolatedAssetID = assetID
	}

	count, err := s.positionStore.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	position.PositionID = count

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.positionStore.Create(ctx, tx, position); err != nil {
			return err
		}

		transaction := &core.Transaction{
			TraceID:    id.GenTraceID(),
			Action:     core.ActionOpenPosition,
			UserID:     userID,
			PositionID: position.PositionID,
			AssetID:    assetID,
		}
		transaction.SetContext(map[string]interface{}{"isolated": isolated})
		return s.transactionStore.Create(ctx, tx, transaction)
	})
	if err != nil {
		return nil, err
	}

	return position, nil
}

func (s *positionService) findPosition(ctx context.Context, userID string, positionID int64) (*core.Position, error) {
	position, err := s.positionStore.Find(ctx, userID, positionID)
	if err != nil {
		return nil, err
	}

	if position == nil {
		return nil, core.ErrInvalidPosition
	}

	return position, nil
}

func (s *positionService) listedAsset(ctx context.Context, assetID string) (*core.Asset, error) {
	asset, err := s.assetStore.Find(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if asset == nil || !asset.Active {
		return nil, core.ErrAssetNotListed
	}

	return asset, nil
}

// SupplyCollateral transfers collateral from the user into the position
func (s *positionService) SupplyCollateral(ctx context.Context, userID string, positionID int64, assetID string, amount decimal.Decimal) error {
	if err := s.checkPaused(ctx); err != nil {
		return err
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrZeroAmount
	}

	position, err := s.findPosition(ctx, userID, positionID)
	if err != nil {
		return err
	}

	if position.Isolated && assetID != position.IsolatedAssetID {
		return core.ErrIsolatedAssetMismatch
	}

	asset, err := s.listedAsset(ctx, assetID)
	if err != nil {
		return err
	}

	if asset.MaxSupply.GreaterThan(decimal.Zero) &&
		asset.TotalCollateral.Add(amount).GreaterThan(asset.MaxSupply) {
		return core.ErrSupplyCapExceeded
	}

	collateral, err := s.positionStore.FindCollateral(ctx, userID, positionID, assetID)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.walletService.Transfer(ctx, tx, userID, core.VaultAccount, assetID, amount); err != nil {
			return err
		}

		if collateral == nil {
			collateral = &core.Collateral{
				UserID:     userID,
				PositionID: positionID,
				AssetID:    assetID,
				Amount:     amount,
			}
			if err := s.positionStore.SaveCollateral(ctx, tx, collateral); err != nil {
				return err
			}
		} else {
			collateral.Amount = collateral.Amount.Add(amount)
			if err := s.positionStore.UpdateCollateral(ctx, tx, collateral); err != nil {
				return err
			}
		}

		asset.TotalCollateral = asset.TotalCollateral.Add(amount)
		if err := s.assetStore.Update(ctx, tx, asset); err != nil {
			return err
		}

		transaction := &core.Transaction{
			TraceID:    id.GenTraceID(),
			Action:     core.ActionSupplyCollateral,
			UserID:     userID,
			PositionID: positionID,
			AssetID:    assetID,
			Amount:     amount,
		}
		return s.transactionStore.Create(ctx, tx, transaction)
	})
}

// WithdrawCollateral releases collateral back to the user. The remaining
// credit limit must still cover the outstanding debt.
func (s *positionService) WithdrawCollateral(ctx context.Context, userID string, positionID int64, assetID string, amount decimal.Decimal) error {
	if err := s.checkPaused(ctx); err != nil {
		return err
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrZeroAmount
	}

	position, err := s.findPosition(ctx, userID, positionID)
	if err != nil {
		return err
	}

	collateral, err := s.positionStore.FindCollateral(ctx, userID, positionID, assetID)
	if err != nil {
		return err
	}

	if collateral == nil || collateral.Amount.LessThan(amount) {
		return core.ErrInsufficientCollateral
	}

	asset, err := s.listedAsset(ctx, assetID)
	if err != nil {
		return err
	}

	debt, err := s.debtWithInterest(ctx, position, time.Now().UTC())
	if err != nil {
		return err
	}

	if debt.GreaterThan(decimal.Zero) {
		limit, err := s.creditLimitExcluding(ctx, userID, positionID, assetID, amount)
		if err != nil {
			return err
		}

		if debt.GreaterThan(limit) {
			return core.ErrInsufficientCollateral
		}
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.walletService.Transfer(ctx, tx, core.VaultAccount, userID, assetID, amount); err != nil {
			return err
		}

		collateral.Amount = collateral.Amount.Sub(amount)
		if err := s.positionStore.UpdateCollateral(ctx, tx, collateral); err != nil {
			return err
		}

		asset.TotalCollateral = asset.TotalCollateral.Sub(amount)
		if err := s.assetStore.Update(ctx, tx, asset); err != nil {
			return err
		}

		transaction := &core.Transaction{
			TraceID:    id.GenTraceID(),
			Action:     core.ActionWithdrawCollateral,
			UserID:     userID,
			PositionID: positionID,
			AssetID:    assetID,
			Amount:     amount,
		}
		return s.transactionStore.Create(ctx, tx, transaction)
	})
}

// CalculateCreditLimit sums each collateral asset's borrow threshold
// weighted USD value. Zero collateral yields a zero limit, not an error.
func (s *positionService) CalculateCreditLimit(ctx context.Context, userID string, positionID int64) (decimal.Decimal, error) {
	if _, err := s.findPosition(ctx, userID, positionID); err != nil {
		return decimal.Zero, err
	}

	return s.creditLimitExcluding(ctx, userID, positionID, "", decimal.Zero)
}

// creditLimitExcluding credit limit with `exclude` less of one asset, used
// for the post withdrawal check
func (s *positionService) creditLimitExcluding(ctx context.Context, userID string, positionID int64, excludeAsset string, exclude decimal.Decimal) (decimal.Decimal, error) {
	collaterals, err := s.positionStore.ListCollaterals(ctx, userID, positionID)
	if err != nil {
		return decimal.Zero, err
	}

	limit := decimal.Zero
	for _, c := range collaterals {
		amount := c.Amount
		if c.AssetID == excludeAsset {
			amount = amount.Sub(exclude)
		}

		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		asset, err := s.listedAsset(ctx, c.AssetID)
		if err != nil {
			return decimal.Zero, err
		}

		price, err := s.priceService.GetPrice(ctx, c.AssetID)
		if err != nil {
			return decimal.Zero, err
		}

		limit = limit.Add(ledger.CreditContribution(amount, price, asset.BorrowThreshold))
	}

	return limit, nil
}

func (s *positionService) liquidationValue(ctx context.Context, userID string, positionID int64) (decimal.Decimal, error) {
	collaterals, err := s.positionStore.ListCollaterals(ctx, userID, positionID)
	if err != nil {
		return decimal.Zero, err
	}

	value := decimal.Zero
	for _, c := range collaterals {
		if c.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		asset, err := s.listedAsset(ctx, c.AssetID)
		if err != nil {
			return decimal.Zero, err
		}

		price, err := s.priceService.GetPrice(ctx, c.AssetID)
		if err != nil {
			return decimal.Zero, err
		}

		value = value.Add(ledger.LiquidationValue(c.Amount, price, asset.LiquidationThreshold))
	}

	return value, nil
}

// GetPositionTier the numerically highest tier among held collaterals.
// Mixing a low and a high risk asset adopts the riskier tier for the whole
// position. An empty position defaults to STABLE.
func (s *positionService) GetPositionTier(ctx context.Context, userID string, positionID int64) (core.Tier, error) {
	if _, err := s.findPosition(ctx, userID, positionID); err != nil {
		return core.TierStable, err
	}

	collaterals, err := s.positionStore.ListCollaterals(ctx, userID, positionID)
	if err != nil {
		return core.TierStable, err
	}

	tier := core.TierStable
	for _, c := range collaterals {
		if c.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		asset, err := s.listedAsset(ctx, c.AssetID)
		if err != nil {
			return core.TierStable, err
		}

		if asset.Tier > tier {
			tier = asset.Tier
		}
	}

	return tier, nil
}

// GetPositionLiquidationFee liquidation fee of the position's tier
func (s *positionService) GetPositionLiquidationFee(ctx context.Context, userID string, positionID int64) (int64, error) {
	tier, err := s.GetPositionTier(ctx, userID, positionID)
	if err != nil {
		return 0, err
	}

	params, err := s.tierStore.Find(ctx, tier)
	if err != nil {
		return 0, err
	}

	if params == nil {
		return 0, core.ErrInvalidTier
	}

	return params.LiquidationFee, nil
}

func (s *positionService) positionRate(ctx context.Context, userID string, positionID int64) (int64, error) {
	tier, err := s.GetPositionTier(ctx, userID, positionID)
	if err != nil {
		return 0, err
	}

	params, err := s.tierStore.Find(ctx, tier)
	if err != nil {
		return 0, err
	}

	if params == nil {
		cfg, err := s.sysConfigService.Get(ctx)
		if err != nil {
			return 0, err
		}

		return cfg.BorrowRate, nil
	}

	return params.BorrowRate, nil
}

func (s *positionService) debtWithInterest(ctx context.Context, position *core.Position, at time.Time) (decimal.Decimal, error) {
	debt := position.Debt()
	if debt.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	rate, err := s.positionRate(ctx, position.UserID, position.PositionID)
	if err != nil {
		return decimal.Zero, err
	}

	pending := s.interestModel.Accrue(debt, rate, at.Sub(position.LastAccruedAt))
	return debt.Add(pending), nil
}

// accrue settles pending interest onto the position in memory
func (s *positionService) accrue(ctx context.Context, position *core.Position, at time.Time) error {
	debt := position.Debt()
	if debt.GreaterThan(decimal.Zero) {
		rate, err := s.positionRate(ctx, position.UserID, position.PositionID)
		if err != nil {
			return err
		}

		pending := s.interestModel.Accrue(debt, rate, at.Sub(position.LastAccruedAt))
		position.InterestOwed = position.InterestOwed.Add(pending)
	}

	position.LastAccruedAt = at
	return nil
}

// CalculateDebtWithInterest debt principal plus interest accrued up to `at`
func (s *positionService) CalculateDebtWithInterest(ctx context.Context, userID string, positionID int64, at time.Time) (decimal.Decimal, error) {
	position, err := s.findPosition(ctx, userID, positionID)
	if err != nil {
		return decimal.Zero, err
	}

	return s.debtWithInterest(ctx, position, at)
}

// HealthFactor liquidation weighted collateral value over current debt.
// Debt free positions report the sentinel maximum.
func (s *positionService) HealthFactor(ctx context.Context, userID string, positionID int64) (decimal.Decimal, error) {
	position, err := s.findPosition(ctx, userID, positionID)
	if err != nil {
		return decimal.Zero, err
	}

	debt, err := s.debtWithInterest(ctx, position, time.Now().UTC())
	if err != nil {
		return decimal.Zero, err
	}

	if debt.LessThanOrEqual(decimal.Zero) {
		return ledger.MaxHealthFactor, nil
	}

	value, err := s.liquidationValue(ctx, userID, positionID)
	if err != nil {
		return decimal.Zero, err
	}

	return ledger.HealthFactor(value, debt), nil
}

func (s *positionService) IsLiquidatable(ctx context.Context, userID string, positionID int64) (bool, error) {
	hf, err := s.HealthFactor(ctx, userID, positionID)
	if err != nil {
		return false, err
	}

	return ledger.IsLiquidatable(hf), nil
}

// Borrow draws stablecoin from the pool against the position's credit limit
func (s *positionService) Borrow(ctx context.Context, userID string, positionID int64, amount decimal.Decimal) error {
	if err := s.checkPaused(ctx); err != nil {
		return err
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrZeroAmount
	}

	position, err := s.findPosition(ctx, userID, positionID)
	if err != nil {
		return err
	}

	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return err
	}

	if amount.GreaterThan(pool.Balance) {
		return core.ErrLowLiquidity
	}

	now := time.Now().UTC()
	if err := s.accrue(ctx, position, now); err != nil {
		return err
	}

	limit, err := s.creditLimitExcluding(ctx, userID, positionID, "", decimal.Zero)
	if err != nil {
		return err
	}

	debt := position.Debt()
	if debt.Add(amount).GreaterThan(limit) {
		return core.ErrCreditLimitExceeded
	}

	if position.Isolated {
		asset, err := s.listedAsset(ctx, position.IsolatedAssetID)
		if err != nil {
			return err
		}

		if asset.IsolationDebtCap.GreaterThan(decimal.Zero) &&
			debt.Add(amount).GreaterThan(asset.IsolationDebtCap) {
			return core.ErrIsolationDebtCapExceeded
		}
	}

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.walletService.Transfer(ctx, tx, core.PoolAccount, userID, pool.AssetID, amount); err != nil {
			return err
		}

		position.Principal = position.Principal.Add(amount)
		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}

		pool.Balance = pool.Balance.Sub(amount)
		pool.TotalBorrow = pool.TotalBorrow.Add(amount)
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		transaction := &core.Transaction{
			TraceID:    id.GenTraceID(),
			Action:     core.ActionBorrow,
			UserID:     userID,
			PositionID: positionID,
			AssetID:    pool.AssetID,
			Amount:     amount,
		}
		return s.transactionStore.Create(ctx, tx, transaction)
	})
}

// Repay settles interest first, then principal. The caller is never pulled
// for more than the outstanding debt; repaying a debt free position is a
// no-op transferring nothing.
func (s *positionService) Repay(ctx context.Context, userID string, positionID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := s.checkPaused(ctx); err != nil {
		return decimal.Zero, err
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, core.ErrZeroAmount
	}

	position, err := s.findPosition(ctx, userID, positionID)
	if err != nil {
		return decimal.Zero, err
	}

	now := time.Now().UTC()
	if err := s.accrue(ctx, position, now); err != nil {
		return decimal.Zero, err
	}

	debt := position.Debt()
	if debt.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	actual := decimal.Min(amount, debt)
	interestPortion := decimal.Min(actual, position.InterestOwed)
	principalPortion := actual.Sub(interestPortion)

	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.walletService.Transfer(ctx, tx, userID, core.PoolAccount, pool.AssetID, actual); err != nil {
			return err
		}

		position.InterestOwed = position.InterestOwed.Sub(interestPortion)
		position.Principal = position.Principal.Sub(principalPortion)
		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}

		pool.Balance = pool.Balance.Add(actual)
		pool.TotalBorrow = pool.TotalBorrow.Sub(principalPortion)
		pool.InterestAccrued = pool.InterestAccrued.Add(interestPortion)
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		transaction := &core.Transaction{
			TraceID:    id.GenTraceID(),
			Action:     core.ActionRepay,
			UserID:     userID,
			PositionID: positionID,
			AssetID:    pool.AssetID,
			Amount:     actual,
		}
		transaction.SetContext(map[string]interface{}{
			"interest":  interestPortion,
			"principal": principalPortion,
		})
		return s.transactionStore.Create(ctx, tx, transaction)
	})
	if err != nil {
		return decimal.Zero, err
	}

	return actual, nil
}

// Liquidate resolves an unhealthy position: the liquidator covers the full
// debt and seizes the collateral, the tier fee going to the treasury
func (s *positionService) Liquidate(ctx context.Context, liquidator, userID string, positionID int64) error {
	if err := s.checkPaused(ctx); err != nil {
		return err
	}

	position, err := s.findPosition(ctx, userID, positionID)
	if err != nil {
		return err
	}

	cfg, err := s.sysConfigService.Get(ctx)
	if err != nil {
		return err
	}

	if cfg.LiquidatorThreshold.GreaterThan(decimal.Zero) {
		share, err := s.poolStore.FindShare(ctx, liquidator)
		if err != nil {
			return err
		}

		if share == nil || share.Amount.LessThan(cfg.LiquidatorThreshold) {
			return core.ErrUnauthorized
		}
	}

	liquidatable, err := s.IsLiquidatable(ctx, userID, positionID)
	if err != nil {
		return err
	}

	if !liquidatable {
		return core.ErrNotLiquidatable
	}

	now := time.Now().UTC()
	if err := s.accrue(ctx, position, now); err != nil {
		return err
	}

	fee, err := s.GetPositionLiquidationFee(ctx, userID, positionID)
	if err != nil {
		return err
	}

	collaterals, err := s.positionStore.ListCollaterals(ctx, userID, positionID)
	if err != nil {
		return err
	}

	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return err
	}

	debt := position.Debt()
	interestOwed := position.InterestOwed
	principal := position.Principal

	err = s.db.Tx(func(tx *db.DB) error {
		if err := s.walletService.Transfer(ctx, tx, liquidator, core.PoolAccount, pool.AssetID, debt); err != nil {
			return err
		}

		for _, c := range collaterals {
			if c.Amount.LessThanOrEqual(decimal.Zero) {
				continue
			}

			feeAmount := c.Amount.Mul(decimal.New(fee, -6)).Truncate(8)
			seized := c.Amount.Sub(feeAmount)

			if seized.GreaterThan(decimal.Zero) {
				if err := s.walletService.Transfer(ctx, tx, core.VaultAccount, liquidator, c.AssetID, seized); err != nil {
					return err
				}
			}

			if feeAmount.GreaterThan(decimal.Zero) {
				if err := s.walletService.Transfer(ctx, tx, core.VaultAccount, core.TreasuryAccount, c.AssetID, feeAmount); err != nil {
					return err
				}
			}

			asset, err := s.listedAsset(ctx, c.AssetID)
			if err != nil {
				return err
			}

			asset.TotalCollateral = asset.TotalCollateral.Sub(c.Amount)
			if err := s.assetStore.Update(ctx, tx, asset); err != nil {
				return err
			}

			c.Amount = decimal.Zero
			if err := s.positionStore.UpdateCollateral(ctx, tx, c); err != nil {
				return err
			}
		}

		position.Principal = decimal.Zero
		position.InterestOwed = decimal.Zero
		if err := s.positionStore.Update(ctx, tx, position); err != nil {
			return err
		}

		pool.Balance = pool.Balance.Add(debt)
		pool.TotalBorrow = pool.TotalBorrow.Sub(principal)
		pool.InterestAccrued = pool.InterestAccrued.Add(interestOwed)
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		transaction := &core.Transaction{
			TraceID:    id.GenTraceID(),
			Action:     core.ActionLiquidate,
			UserID:     userID,
			PositionID: positionID,
			AssetID:    pool.AssetID,
			Amount:     debt,
		}
		transaction.SetContext(map[string]interface{}{
			"liquidator": liquidator,
			"fee":        fee,
		})
		return s.transactionStore.Create(ctx, tx, transaction)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).
		WithField("user", userID).
		WithField("position", positionID).
		Infoln("position liquidated")
	return nil
}
