package asset

import (
	"context"
	"testing"

	"lendefi/core"
	"lendefi/internal/memstore"

	"github.com/bmizerany/assert"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (core.IAssetService, *memstore.AssetStore, *memstore.TierStore) {
	t.Helper()

	assets := memstore.NewAssetStore()
	tiers := memstore.NewTierStore()
	system := &core.System{Managers: []string{"admin"}}
	return New(memstore.Txer{}, system, assets, tiers), assets, tiers
}

func TestUpdateAssetConfig(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	asset := &core.Asset{
		AssetID:              "btc",
		Symbol:               "BTC",
		Decimals:             8,
		BorrowThreshold:      650,
		LiquidationThreshold: 800,
		Tier:                 core.TierCrossA,
	}

	err := service.UpdateAssetConfig(ctx, "mallory", asset)
	assert.Equal(t, core.ErrUnauthorized, err)

	require.Nil(t, service.UpdateAssetConfig(ctx, "admin", asset))

	got, err := service.GetAssetInfo(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, true, got.Active)
	assert.Equal(t, int64(650), got.BorrowThreshold)

	// overwrite keeps the same row
	asset.BorrowThreshold = 700
	asset.MaxSupply = decimal.NewFromInt(21000)
	require.Nil(t, service.UpdateAssetConfig(ctx, "admin", asset))

	got, err = service.GetAssetInfo(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, int64(700), got.BorrowThreshold)
	assert.Equal(t, "21000", got.MaxSupply.String())

	_, err = service.GetAssetInfo(ctx, "unknown")
	assert.Equal(t, core.ErrAssetNotListed, err)
}

func TestUpdateAssetConfigValidation(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	// liquidation threshold below the borrow threshold
	err := service.UpdateAssetConfig(ctx, "admin", &core.Asset{
		AssetID:              "btc",
		BorrowThreshold:      800,
		LiquidationThreshold: 650,
	})
	assert.Equal(t, core.ErrInvalidThreshold, err)

	// thresholds beyond full scale
	err = service.UpdateAssetConfig(ctx, "admin", &core.Asset{
		AssetID:              "btc",
		BorrowThreshold:      900,
		LiquidationThreshold: 1100,
	})
	assert.Equal(t, core.ErrInvalidThreshold, err)

	err = service.UpdateAssetConfig(ctx, "admin", &core.Asset{
		AssetID:              "btc",
		BorrowThreshold:      650,
		LiquidationThreshold: 800,
		Decimals:             19,
	})
	assert.Equal(t, core.ErrInvalidThreshold, err)

	err = service.UpdateAssetConfig(ctx, "admin", &core.Asset{
		AssetID:              "btc",
		BorrowThreshold:      650,
		LiquidationThreshold: 800,
		Tier:                 core.Tier(9),
	})
	assert.Equal(t, core.ErrInvalidTier, err)
}

func TestUpdateAssetTier(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	err := service.UpdateAssetTier(ctx, "admin", "btc", core.TierCrossB)
	assert.Equal(t, core.ErrAssetNotListed, err)

	require.Nil(t, service.UpdateAssetConfig(ctx, "admin", &core.Asset{
		AssetID:              "btc",
		BorrowThreshold:      650,
		LiquidationThreshold: 800,
		Tier:                 core.TierCrossA,
	}))

	require.Nil(t, service.UpdateAssetTier(ctx, "admin", "btc", core.TierCrossB))

	got, err := service.GetAssetInfo(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, core.TierCrossB, got.Tier)

	// setting the same tier again is fine
	require.Nil(t, service.UpdateAssetTier(ctx, "admin", "btc", core.TierCrossB))

	err = service.UpdateAssetTier(ctx, "admin", "btc", core.Tier(-1))
	assert.Equal(t, core.ErrInvalidTier, err)
}

func TestTierConfig(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t)

	rates, err := service.GetTierRates(ctx)
	require.Nil(t, err)
	assert.Equal(t, int64(60000), rates.BorrowRates[core.TierStable])
	assert.Equal(t, int64(40000), rates.LiquidationFees[core.TierIsolated])

	err = service.UpdateTierConfig(ctx, "mallory", core.TierStable, 50000, 10000)
	assert.Equal(t, core.ErrUnauthorized, err)

	err = service.UpdateTierConfig(ctx, "admin", core.TierStable, core.RateScale+1, 10000)
	assert.Equal(t, core.ErrInvalidFee, err)

	require.Nil(t, service.UpdateTierConfig(ctx, "admin", core.TierStable, 50000, 15000))

	rates, err = service.GetTierRates(ctx)
	require.Nil(t, err)
	assert.Equal(t, int64(50000), rates.BorrowRates[core.TierStable])
	assert.Equal(t, int64(15000), rates.LiquidationFees[core.TierStable])
}
