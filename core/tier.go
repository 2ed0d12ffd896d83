package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Tier collateral risk tier, ordered by increasing risk.
// The ordering is fixed by the enum encoding, not by configuration.
type Tier int

const (
	// TierStable stable coins
	TierStable Tier = iota
	// TierCrossA cross collateral, grade A
	TierCrossA
	// TierCrossB cross collateral, grade B
	TierCrossB
	// TierIsolated isolated collateral
	TierIsolated

	// TierCount number of tiers
	TierCount = 4
)

// RateScale fixed point scale of tier rates, 1e6 = 100%
const RateScale int64 = 1000000

func (t Tier) String() string {
	switch t {
	case TierStable:
		return "STABLE"
	case TierCrossA:
		return "CROSS_A"
	case TierCrossB:
		return "CROSS_B"
	case TierIsolated:
		return "ISOLATED"
	}

	return "UNKNOWN"
}

// Valid reports whether t is one of the four tiers
func (t Tier) Valid() bool {
	return t >= TierStable && t <= TierIsolated
}

// TierParams per tier risk parameters.
// BorrowRate is the annual borrow rate and LiquidationFee the fee taken
// from seized collateral, both scaled by RateScale.
type TierParams struct {
	ID             uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Tier           Tier      `sql:"unique_index:tier_idx" json:"tier"`
	BorrowRate     int64     `sql:"default:0" json:"borrow_rate"`
	LiquidationFee int64     `sql:"default:0" json:"liquidation_fee"`
	Version        int64     `sql:"default:0" json:"version"`
	CreatedAt      time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// DefaultTierParams the four tiers with their initialization defaults.
// Fees grow with the tier's risk but that hierarchy is configuration,
// the "highest tier wins" fold compares the enum only.
func DefaultTierParams() []*TierParams {
	return []*TierParams{
		{Tier: TierStable, BorrowRate: 60000, LiquidationFee: 10000},
		{Tier: TierCrossA, BorrowRate: 80000, LiquidationFee: 20000},
		{Tier: TierCrossB, BorrowRate: 100000, LiquidationFee: 30000},
		{Tier: TierIsolated, BorrowRate: 150000, LiquidationFee: 40000},
	}
}

// TierRates borrow rates and liquidation fees indexed by tier encoding
type TierRates struct {
	BorrowRates     [TierCount]int64 `json:"borrow_rates"`
	LiquidationFees [TierCount]int64 `json:"liquidation_fees"`
}

// ITierStore tier params store interface
type ITierStore interface {
	Init(ctx context.Context, params []*TierParams) error
	Find(ctx context.Context, tier Tier) (*TierParams, error)
	All(ctx context.Context) ([]*TierParams, error)
	Update(ctx context.Context, tx *db.DB, params *TierParams) error
}
