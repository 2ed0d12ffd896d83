package ledger

import (
	"github.com/shopspring/decimal"
)

var (
	// PoolPrecision decimals of the pool stablecoin unit
	PoolPrecision int32 = 6
	// SharePrecision decimals of the liquidity share token
	SharePrecision int32 = 8
	// MaxPrecision max precision
	MaxPrecision int32 = 16
	// SecondsPerYear accrual year
	SecondsPerYear = decimal.NewFromInt(31536000)
	// MaxHealthFactor sentinel health factor of a debt free position
	MaxHealthFactor = decimal.New(1, 18)
	// One liquidation boundary of the health factor
	One = decimal.NewFromInt(1)
)

// CollateralValue USD value of a collateral balance
func CollateralValue(amount, price decimal.Decimal) decimal.Decimal {
	return amount.Mul(price).Truncate(MaxPrecision)
}

// CreditContribution borrowable USD value one collateral asset contributes
// to a position's credit limit.
// contribution = amount * price * borrow_threshold / 1000, floored at the
// pool unit precision. Thresholds are per mille so the multiplier shift is
// exact; no floating point anywhere.
func CreditContribution(amount, price decimal.Decimal, borrowThreshold int64) decimal.Decimal {
	return amount.Mul(price).Mul(decimal.New(borrowThreshold, -3)).Truncate(PoolPrecision)
}

// LiquidationValue USD value of collateral weighted by the liquidation
// threshold, the numerator of the health factor
func LiquidationValue(amount, price decimal.Decimal, liquidationThreshold int64) decimal.Decimal {
	return amount.Mul(price).Mul(decimal.New(liquidationThreshold, -3)).Truncate(PoolPrecision)
}

// HealthFactor ratio of liquidation weighted collateral value to debt.
// A position with no debt is infinitely safe and reports MaxHealthFactor;
// below One the position is liquidatable.
func HealthFactor(liquidationValue, debt decimal.Decimal) decimal.Decimal {
	if debt.LessThanOrEqual(decimal.Zero) {
		return MaxHealthFactor
	}

	return liquidationValue.Div(debt).Truncate(MaxPrecision)
}

// IsLiquidatable health factor strictly below the boundary
func IsLiquidatable(healthFactor decimal.Decimal) bool {
	return healthFactor.LessThan(One)
}

// MintShares shares minted for a liquidity deposit.
// The first supplier receives shares one to one; later suppliers receive
// amount * total_shares / pool_value where pool_value is the pre deposit
// value of the pool.
func MintShares(amount, totalShares, poolValue decimal.Decimal) decimal.Decimal {
	if totalShares.LessThanOrEqual(decimal.Zero) {
		return amount
	}

	if poolValue.LessThanOrEqual(decimal.Zero) {
		return amount
	}

	return amount.Mul(totalShares).Div(poolValue).Truncate(SharePrecision)
}

// RedeemValue pool value a share balance redeems for
func RedeemValue(shares, totalShares, poolValue decimal.Decimal) decimal.Decimal {
	if totalShares.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return shares.Mul(poolValue).Div(totalShares).Truncate(PoolPrecision)
}

// Utilization total_borrow / total_supplied, zero when nothing is supplied
func Utilization(totalBorrow, totalSupplied decimal.Decimal) decimal.Decimal {
	if totalSupplied.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return totalBorrow.Div(totalSupplied).Truncate(MaxPrecision)
}

// FlashLoanFee fee = floor(amount * fee_bps / 10000) at pool precision
func FlashLoanFee(amount decimal.Decimal, feeBps int64) decimal.Decimal {
	return amount.Mul(decimal.New(feeBps, -4)).Truncate(PoolPrecision)
}
