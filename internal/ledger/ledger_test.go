package ledger

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	r, _ := decimal.NewFromString(v)
	return r
}

func TestCreditContribution(t *testing.T) {
	// 10 tokens at $1000 with a 65% borrow threshold are worth $6500 of credit
	data := []struct {
		amount    string
		price     string
		threshold int64
		expect    string
	}{
		{"10", "1000", 650, "6500"},
		{"10", "2000", 650, "13000"},
		{"20", "1000", 650, "13000"},
		{"1", "1", 1000, "1"},
		{"0", "1000", 650, "0"},
		{"0.5", "30000", 800, "12000"},
		{"3", "0.333333", 650, "0.649999"},
	}

	for _, tt := range data {
		c := CreditContribution(d(tt.amount), d(tt.price), tt.threshold)
		assert.Equal(t, tt.expect, c.String())
	}
}

func TestCreditContributionLinear(t *testing.T) {
	base := CreditContribution(d("7"), d("123.45"), 650)

	// doubling collateral doubles the limit, price held constant
	assert.Equal(t, base.Mul(decimal.NewFromInt(2)).String(),
		CreditContribution(d("14"), d("123.45"), 650).String())

	// doubling price doubles the limit
	assert.Equal(t, base.Mul(decimal.NewFromInt(2)).String(),
		CreditContribution(d("7"), d("246.9"), 650).String())
}

func TestHealthFactor(t *testing.T) {
	// no debt is infinitely safe
	hf := HealthFactor(d("1000"), decimal.Zero)
	assert.Equal(t, MaxHealthFactor.String(), hf.String())
	assert.Equal(t, false, IsLiquidatable(hf))

	// at the boundary the position is still safe
	hf = HealthFactor(d("1000"), d("1000"))
	assert.Equal(t, "1", hf.String())
	assert.Equal(t, false, IsLiquidatable(hf))

	// below the boundary it is not
	hf = HealthFactor(d("999"), d("1000"))
	assert.Equal(t, true, IsLiquidatable(hf))
}

func TestMintShares(t *testing.T) {
	// first supplier gets shares one to one
	assert.Equal(t, "10000", MintShares(d("10000"), decimal.Zero, decimal.Zero).String())

	// second supplier gets amount * prior_shares / pool_value
	shares := MintShares(d("5000"), d("10000"), d("12500"))
	assert.Equal(t, "4000", shares.String())

	// unchanged pool value keeps the rate one to one
	assert.Equal(t, "5000", MintShares(d("5000"), d("10000"), d("10000")).String())
}

func TestRedeemValue(t *testing.T) {
	require.True(t, RedeemValue(d("100"), decimal.Zero, d("1000")).IsZero())

	// redeem quarter of the shares of a 12500 pool
	v := RedeemValue(d("2500"), d("10000"), d("12500"))
	assert.Equal(t, "3125", v.String())
}

func TestUtilization(t *testing.T) {
	assert.Equal(t, "0", Utilization(d("100"), decimal.Zero).String())
	assert.Equal(t, "0.65", Utilization(d("6500"), d("10000")).String())
}

func TestFlashLoanFee(t *testing.T) {
	// 9 bps on $100,000 is $90
	data := []struct {
		amount string
		bps    int64
		expect string
	}{
		{"100000", 9, "90"},
		{"100000", 100, "1000"},
		{"1", 9, "0.0009"},
		{"0.001", 9, "0"},
		{"33333", 7, "23.3331"},
	}

	for _, tt := range data {
		fee := FlashLoanFee(d(tt.amount), tt.bps)
		assert.Equal(t, tt.expect, fee.String())
	}
}

func TestFlashLoanFeeAdditive(t *testing.T) {
	total := decimal.Zero
	for i := 0; i < 5; i++ {
		total = total.Add(FlashLoanFee(d("100000"), 9))
	}

	require.Equal(t, "450", total.String())
}
