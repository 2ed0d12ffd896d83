package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestModel interest accrual strategy. Accrue returns the interest a
// debt earns over elapsed time at the given annual rate (scaled 1e6 = 100%).
// Accrual is a pure function of elapsed time and debt, recomputed lazily on
// every read and write.
type InterestModel interface {
	Accrue(debt decimal.Decimal, rate int64, elapsed time.Duration) decimal.Decimal
}

// LinearModel simple interest, debt * rate * elapsed / year
type LinearModel struct{}

// Accrue implements InterestModel
func (LinearModel) Accrue(debt decimal.Decimal, rate int64, elapsed time.Duration) decimal.Decimal {
	if elapsed <= 0 || rate <= 0 || debt.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	seconds := decimal.NewFromInt(int64(elapsed / time.Second))
	return debt.Mul(decimal.New(rate, -6)).Mul(seconds).Div(SecondsPerYear).Truncate(PoolPrecision)
}

// BorrowRatePerYear utilization kinked borrow rate.
// Below the kink the rate climbs linearly from baseRate with multiplier;
// past the kink the jump multiplier applies to the excess utilization.
func BorrowRatePerYear(utilizationRate, baseRate, multiplier, jumpMultiplier, kink decimal.Decimal) decimal.Decimal {
	if kink.Equal(decimal.Zero) ||
		utilizationRate.LessThanOrEqual(kink) {
		return utilizationRate.Mul(multiplier).Add(baseRate).Truncate(MaxPrecision)
	}

	normalRate := kink.Mul(multiplier).Add(baseRate)
	excessUtilRate := utilizationRate.Sub(kink)
	return excessUtilRate.Mul(jumpMultiplier).Add(normalRate).Truncate(MaxPrecision)
}

// JumpRateModel accrues at the kinked rate for the pool utilization
// captured at accrual time. The per position tier rate is ignored; the
// utilization curve governs instead.
type JumpRateModel struct {
	BaseRate       decimal.Decimal
	Multiplier     decimal.Decimal
	JumpMultiplier decimal.Decimal
	Kink           decimal.Decimal

	// Utilization pool utilization provider
	Utilization func() decimal.Decimal
}

// Accrue implements InterestModel
func (m JumpRateModel) Accrue(debt decimal.Decimal, _ int64, elapsed time.Duration) decimal.Decimal {
	if elapsed <= 0 || debt.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	rate := BorrowRatePerYear(m.Utilization(), m.BaseRate, m.Multiplier, m.JumpMultiplier, m.Kink)
	seconds := decimal.NewFromInt(int64(elapsed / time.Second))
	return debt.Mul(rate).Mul(seconds).Div(SecondsPerYear).Truncate(PoolPrecision)
}
