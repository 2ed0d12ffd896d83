package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// PoolAccount wallet account holding the pool's stablecoin cash
const PoolAccount = "pool"

// VaultAccount wallet account holding position collateral
const VaultAccount = "vault"

// TreasuryAccount wallet account collecting liquidation fees
const TreasuryAccount = "treasury"

// Balance per account, per asset token balance
type Balance struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Account   string          `sql:"size:64;unique_index:balance_idx" json:"account"`
	AssetID   string          `sql:"size:36;unique_index:balance_idx" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IWalletStore token balance store interface
type IWalletStore interface {
	Find(ctx context.Context, account, assetID string) (*Balance, error)
	FindByAccount(ctx context.Context, account string) ([]*Balance, error)
	// Add adjusts a balance by delta; a negative delta failing the balance
	// check returns ErrInsufficientBalance and aborts the transaction
	Add(ctx context.Context, tx *db.DB, account, assetID string, delta decimal.Decimal) error
}

// IWalletService token transfer interface. Transfer debits from and
// credits to atomically within tx, propagating the balance failure as is.
type IWalletService interface {
	Transfer(ctx context.Context, tx *db.DB, from, to, assetID string, amount decimal.Decimal) error
	Balance(ctx context.Context, account, assetID string) (decimal.Decimal, error)
}
