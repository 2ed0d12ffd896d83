package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// MaxFlashLoanFee policy ceiling of the flash loan fee, 100 bps = 1%
const MaxFlashLoanFee int64 = 100

// FlashLoanFeeScale basis points scale, 10000 = 100%
const FlashLoanFeeScale int64 = 10000

// ProtocolConfig global protocol parameters, replaced wholesale by a
// privileged load. FlashLoanFee is in basis points; rates are scaled by
// RateScale.
type ProtocolConfig struct {
	FlashLoanFee        int64           `json:"flash_loan_fee"`
	BorrowRate          int64           `json:"borrow_rate"`
	ProfitTargetRate    int64           `json:"profit_target_rate"`
	RewardAmount        decimal.Decimal `json:"reward_amount"`
	RewardInterval      int64           `json:"reward_interval"`
	RewardableSupply    decimal.Decimal `json:"rewardable_supply"`
	LiquidatorThreshold decimal.Decimal `json:"liquidator_threshold"`
}

// Validate rejects configs violating the policy ceilings
func (c *ProtocolConfig) Validate() error {
	if c.FlashLoanFee < 0 || c.FlashLoanFee > MaxFlashLoanFee {
		return ErrInvalidFee
	}

	if c.BorrowRate < 0 || c.BorrowRate > RateScale {
		return ErrInvalidFee
	}

	return nil
}

// DefaultProtocolConfig initialization defaults
func DefaultProtocolConfig() ProtocolConfig {
	return ProtocolConfig{
		FlashLoanFee:        9,
		BorrowRate:          60000,
		ProfitTargetRate:    10000,
		RewardAmount:        decimal.New(1, 3),
		RewardInterval:      180 * 24 * 3600,
		RewardableSupply:    decimal.New(1, 5),
		LiquidatorThreshold: decimal.New(2, 4),
	}
}

// ISysConfigService protocol configuration and pause switch
type ISysConfigService interface {
	Load(ctx context.Context, operator string, cfg ProtocolConfig) error
	Get(ctx context.Context) (ProtocolConfig, error)
	Pause(ctx context.Context, operator string) error
	Resume(ctx context.Context, operator string) error
	Paused(ctx context.Context) (bool, error)
}
