package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Position a user's isolated unit of collateral and debt.
// Principal tracks borrowed principal only; InterestOwed holds interest
// settled onto the position by lazy accrual. The two are kept apart so
// repayments can settle interest first and shrink the pool's total borrow
// by exactly the principal portion.
type Position struct {
	ID         uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID     string `sql:"size:36;unique_index:position_idx" json:"user_id"`
	PositionID int64  `sql:"unique_index:position_idx" json:"position_id"`
	Isolated   bool   `sql:"default:false" json:"isolated"`
	// IsolatedAssetID the single asset an isolated position is bound to at creation
	IsolatedAssetID string          `sql:"size:36" json:"isolated_asset_id,omitempty"`
	Principal       decimal.Decimal `sql:"type:decimal(32,16)" json:"principal"`
	InterestOwed    decimal.Decimal `sql:"type:decimal(32,16)" json:"interest_owed"`
	LastAccruedAt   time.Time       `json:"last_accrued_at"`
	Version         int64           `sql:"default:0" json:"version"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Debt principal plus settled interest, excluding pending accrual
func (p *Position) Debt() decimal.Decimal {
	return p.Principal.Add(p.InterestOwed)
}

// Collateral per asset collateral balance of a position
type Collateral struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID     string          `sql:"size:36;unique_index:collateral_idx" json:"user_id"`
	PositionID int64           `sql:"unique_index:collateral_idx" json:"position_id"`
	AssetID    string          `sql:"size:36;unique_index:collateral_idx" json:"asset_id"`
	Amount     decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Version    int64           `sql:"default:0" json:"version"`
	CreatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPositionStore position store interface
type IPositionStore interface {
	Create(ctx context.Context, tx *db.DB, position *Position) error
	Find(ctx context.Context, userID string, positionID int64) (*Position, error)
	FindByUser(ctx context.Context, userID string) ([]*Position, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, tx *db.DB, position *Position) error
	FindCollateral(ctx context.Context, userID string, positionID int64, assetID string) (*Collateral, error)
	ListCollaterals(ctx context.Context, userID string, positionID int64) ([]*Collateral, error)
	SaveCollateral(ctx context.Context, tx *db.DB, collateral *Collateral) error
	UpdateCollateral(ctx context.Context, tx *db.DB, collateral *Collateral) error
}

// IPositionService position ledger interface
type IPositionService interface {
	CreatePosition(ctx context.Context, userID, assetID string, isolated bool) (*Position, error)
	SupplyCollateral(ctx context.Context, userID string, positionID int64, assetID string, amount decimal.Decimal) error
	WithdrawCollateral(ctx context.Context, userID string, positionID int64, assetID string, amount decimal.Decimal) error
	Borrow(ctx context.Context, userID string, positionID int64, amount decimal.Decimal) error
	Repay(ctx context.Context, userID string, positionID int64, amount decimal.Decimal) (decimal.Decimal, error)
	Liquidate(ctx context.Context, liquidator, userID string, positionID int64) error

	CalculateCreditLimit(ctx context.Context, userID string, positionID int64) (decimal.Decimal, error)
	CalculateDebtWithInterest(ctx context.Context, userID string, positionID int64, at time.Time) (decimal.Decimal, error)
	GetPositionTier(ctx context.Context, userID string, positionID int64) (Tier, error)
	GetPositionLiquidationFee(ctx context.Context, userID string, positionID int64) (int64, error)
	HealthFactor(ctx context.Context, userID string, positionID int64) (decimal.Decimal, error)
	IsLiquidatable(ctx context.Context, userID string, positionID int64) (bool, error)
}
