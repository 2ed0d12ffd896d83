package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// ThresholdScale fixed point scale of asset thresholds, 1000 = 100%
const ThresholdScale int64 = 1000

// Asset listed collateral asset configuration
type Asset struct {
	ID      uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID string `sql:"size:36;unique_index:asset_idx" json:"asset_id"`
	Symbol  string `sql:"size:20" json:"symbol"`
	Active  bool   `sql:"default:true" json:"active"`
	// Decimals of the underlying token, at most 18
	Decimals int32 `sql:"default:8" json:"decimals"`
	// BorrowThreshold per mille fraction of collateral value that may be borrowed
	BorrowThreshold int64 `json:"borrow_threshold"`
	// LiquidationThreshold per mille, always >= BorrowThreshold
	LiquidationThreshold int64 `json:"liquidation_threshold"`
	// MaxSupply cap on pooled collateral in asset units, zero means unbounded
	MaxSupply decimal.Decimal `sql:"type:decimal(32,16)" json:"max_supply"`
	// IsolationDebtCap cap on debt of isolated positions in USD, zero means unbounded
	IsolationDebtCap decimal.Decimal `sql:"type:decimal(20,8)" json:"isolation_debt_cap"`
	Tier             Tier            `sql:"default:0" json:"tier"`
	// OracleAssetID asset id used by the price feed
	OracleAssetID string `sql:"size:36" json:"oracle_asset_id"`
	// MinOracleCount minimum feeds required for a trusted price
	MinOracleCount int `sql:"default:1" json:"min_oracle_count"`
	// TotalCollateral pooled collateral across all positions, for cap enforcement
	TotalCollateral decimal.Decimal `sql:"type:decimal(32,16)" json:"total_collateral"`
	Version         int64           `sql:"default:0" json:"version"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IAssetStore asset store interface
type IAssetStore interface {
	Save(ctx context.Context, tx *db.DB, asset *Asset) error
	Find(ctx context.Context, assetID string) (*Asset, error)
	All(ctx context.Context) ([]*Asset, error)
	AllAsMap(ctx context.Context) (map[string]*Asset, error)
	Update(ctx context.Context, tx *db.DB, asset *Asset) error
}

// IAssetService asset registry interface
type IAssetService interface {
	UpdateAssetConfig(ctx context.Context, operator string, asset *Asset) error
	GetAssetInfo(ctx context.Context, assetID string) (*Asset, error)
	UpdateAssetTier(ctx context.Context, operator string, assetID string, tier Tier) error
	UpdateTierConfig(ctx context.Context, operator string, tier Tier, borrowRate, liquidationFee int64) error
	GetTierRates(ctx context.Context) (*TierRates, error)
}
