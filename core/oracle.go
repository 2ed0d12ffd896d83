package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// Price latest USD price of an asset as reported by the feed
type Price struct {
	ID      uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID string          `sql:"size:36;unique_index:price_idx" json:"asset_id"`
	Price   decimal.Decimal `sql:"type:decimal(32,12)" json:"price"`
	// PriceTime feed timestamp, used for the staleness bound
	PriceTime time.Time      `json:"price_time"`
	Content   types.JSONText `sql:"type:varchar(1024)" json:"content,omitempty"`
	Version   int64          `sql:"default:0" json:"version"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PriceTicker one tick of the external price feed
type PriceTicker struct {
	Provider  string          `json:"provider,omitempty"`
	AssetID   string          `json:"asset_id"`
	Symbol    string          `json:"symbol,omitempty"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IPriceStore price store interface
type IPriceStore interface {
	Save(ctx context.Context, tx *db.DB, price *Price) error
	Latest(ctx context.Context, assetID string) (*Price, error)
	All(ctx context.Context) ([]*Price, error)
}

// IPriceOracleService price oracle interface.
// GetPrice fails with ErrInvalidPrice if the feed reported a non positive
// price and ErrStalePrice if the price is older than the staleness bound.
type IPriceOracleService interface {
	GetPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
	PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*PriceTicker, error)
	PullAllPriceTickers(ctx context.Context, t time.Time) ([]*PriceTicker, error)
}
