package asset

import (
	"context"

	"lendefi/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

const maxDecimals = 18

type assetService struct {
	db         core.Txer
	system     *core.System
	assetStore core.IAssetStore
	tierStore  core.ITierStore
}

// New new asset registry service
func New(
	db core.Txer,
	system *core.System,
	assetStore core.IAssetStore,
	tierStore core.ITierStore,
) core.IAssetService {
	return &assetService{
		db:         db,
		system:     system,
		assetStore: assetStore,
		tierStore:  tierStore,
	}
}

// UpdateAssetConfig overwrites or creates the asset's full configuration
func (s *assetService) UpdateAssetConfig(ctx context.Context, operator string, asset *core.Asset) error {
	if !s.system.IsManager(operator) {
		return core.ErrUnauthorized
	}

	if asset.LiquidationThreshold < asset.BorrowThreshold {
		return core.ErrInvalidThreshold
	}

	if asset.BorrowThreshold < 0 || asset.LiquidationThreshold > core.ThresholdScale {
		return core.ErrInvalidThreshold
	}

	if asset.Decimals < 0 || asset.Decimals > maxDecimals {
		return core.ErrInvalidThreshold
	}

	if !asset.Tier.Valid() {
		return core.ErrInvalidTier
	}

	existing, err := s.assetStore.Find(ctx, asset.AssetID)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		if existing == nil {
			asset.Active = true
			return s.assetStore.Save(ctx, tx, asset)
		}

		existing.Symbol = asset.Symbol
		existing.Active = asset.Active
		existing.Decimals = asset.Decimals
		existing.BorrowThreshold = asset.BorrowThreshold
		existing.LiquidationThreshold = asset.LiquidationThreshold
		existing.MaxSupply = asset.MaxSupply
		existing.IsolationDebtCap = asset.IsolationDebtCap
		existing.Tier = asset.Tier
		existing.OracleAssetID = asset.OracleAssetID
		existing.MinOracleCount = asset.MinOracleCount
		return s.assetStore.Update(ctx, tx, existing)
	})
}

// GetAssetInfo fails with ErrAssetNotListed for unconfigured assets
func (s *assetService) GetAssetInfo(ctx context.Context, assetID string) (*core.Asset, error) {
	asset, err := s.assetStore.Find(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if asset == nil {
		return nil, core.ErrAssetNotListed
	}

	return asset, nil
}

// UpdateAssetTier partial update of the tier field only. Setting the same
// tier again succeeds.
func (s *assetService) UpdateAssetTier(ctx context.Context, operator string, assetID string, tier core.Tier) error {
	if !s.system.IsManager(operator) {
		return core.ErrUnauthorized
	}

	if !tier.Valid() {
		return core.ErrInvalidTier
	}

	asset, err := s.assetStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	if asset == nil {
		return core.ErrAssetNotListed
	}

	old := asset.Tier
	asset.Tier = tier
	if err := s.db.Tx(func(tx *db.DB) error {
		return s.assetStore.Update(ctx, tx, asset)
	}); err != nil {
		return err
	}

	logger.FromContext(ctx).
		WithField("asset", assetID).
		Infof("asset tier updated %s -> %s", old, tier)
	return nil
}

// UpdateTierConfig overwrites the two parameters of a tier
func (s *assetService) UpdateTierConfig(ctx context.Context, operator string, tier core.Tier, borrowRate, liquidationFee int64) error {
	if !s.system.IsManager(operator) {
		return core.ErrUnauthorized
	}

	if !tier.Valid() {
		return core.ErrInvalidTier
	}

	if borrowRate < 0 || borrowRate > core.RateScale ||
		liquidationFee < 0 || liquidationFee > core.RateScale {
		return core.ErrInvalidFee
	}

	params, err := s.tierStore.Find(ctx, tier)
	if err != nil {
		return err
	}

	if params == nil {
		return core.ErrInvalidTier
	}

	params.BorrowRate = borrowRate
	params.LiquidationFee = liquidationFee
	return s.db.Tx(func(tx *db.DB) error {
		return s.tierStore.Update(ctx, tx, params)
	})
}

// GetTierRates borrow rates and liquidation fees indexed by tier encoding
func (s *assetService) GetTierRates(ctx context.Context) (*core.TierRates, error) {
	params, err := s.tierStore.All(ctx)
	if err != nil {
		return nil, err
	}

	var rates core.TierRates
	for _, p := range params {
		if !p.Tier.Valid() {
			continue
		}

		rates.BorrowRates[p.Tier] = p.BorrowRate
		rates.LiquidationFees[p.Tier] = p.LiquidationFee
	}

	return &rates, nil
}
