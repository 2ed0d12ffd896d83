package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized caller lacks the required capability
	ErrUnauthorized ErrorCode = 100001
	// ErrPaused protocol is halted
	ErrPaused ErrorCode = 100002

	// ErrAssetNotListed asset was never configured
	ErrAssetNotListed ErrorCode = 100100
	// ErrZeroAmount amount must be positive
	ErrZeroAmount ErrorCode = 100101
	// ErrInvalidPosition position id does not exist for the owner
	ErrInvalidPosition ErrorCode = 100102
	// ErrCreditLimitExceeded borrow would exceed the credit limit
	ErrCreditLimitExceeded ErrorCode = 100103
	// ErrLowLiquidity pool lacks sufficient balance
	ErrLowLiquidity ErrorCode = 100104
	// ErrInvalidFee fee above its policy ceiling
	ErrInvalidFee ErrorCode = 100105
	// ErrRepaymentFailed flash loan receiver did not return funds plus fee
	ErrRepaymentFailed ErrorCode = 100106
	// ErrFlashLoanFailed flash loan receiver callback signaled failure
	ErrFlashLoanFailed ErrorCode = 100107
	// ErrInsufficientCollateral withdrawal would leave the position under-collateralized
	ErrInsufficientCollateral ErrorCode = 100108
	// ErrInvalidPrice oracle reported a non-positive price
	ErrInvalidPrice ErrorCode = 100109
	// ErrStalePrice oracle price is older than the staleness bound
	ErrStalePrice ErrorCode = 100110
	// ErrIsolatedAssetMismatch isolated position only accepts its bound asset
	ErrIsolatedAssetMismatch ErrorCode = 100111
	// ErrSupplyCapExceeded deposit would exceed the asset supply cap
	ErrSupplyCapExceeded ErrorCode = 100112
	// ErrIsolationDebtCapExceeded borrow would exceed the isolation debt cap
	ErrIsolationDebtCapExceeded ErrorCode = 100113
	// ErrInvalidTier tier out of range
	ErrInvalidTier ErrorCode = 100114
	// ErrInvalidThreshold liquidation threshold below borrow threshold
	ErrInvalidThreshold ErrorCode = 100115
	// ErrNotLiquidatable position health factor is not below the boundary
	ErrNotLiquidatable ErrorCode = 100116
	// ErrInsufficientBalance account balance too low for the transfer
	ErrInsufficientBalance ErrorCode = 100117
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
