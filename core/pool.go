package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Pool stablecoin pool accounting. A single row holds the global counters;
// they are mutated only inside the same transaction as the operation that
// moves funds, so each must reconcile exactly against the wallet ledger.
type Pool struct {
	ID uint64 `sql:"PRIMARY_KEY" json:"id"`
	// AssetID the pool stablecoin
	AssetID string `sql:"size:36" json:"asset_id"`
	// Balance cash held by the pool
	Balance decimal.Decimal `sql:"type:decimal(32,16)" json:"balance"`
	// TotalSupplied liquidity supplied by share holders
	TotalSupplied decimal.Decimal `sql:"type:decimal(32,16)" json:"total_supplied"`
	// TotalBorrow outstanding borrow principal across all positions
	TotalBorrow decimal.Decimal `sql:"type:decimal(32,16)" json:"total_borrow"`
	// InterestAccrued borrower interest settled by repayments
	InterestAccrued decimal.Decimal `sql:"type:decimal(32,16)" json:"interest_accrued"`
	// FlashLoanFees accumulated flash loan revenue
	FlashLoanFees decimal.Decimal `sql:"type:decimal(32,16)" json:"flash_loan_fees"`
	// TotalShares liquidity share token supply
	TotalShares decimal.Decimal `sql:"type:decimal(32,16)" json:"total_shares"`
	Version     int64           `sql:"default:0" json:"version"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Value pool cash plus outstanding borrow principal
func (p *Pool) Value() decimal.Decimal {
	return p.Balance.Add(p.TotalBorrow)
}

// Share liquidity share balance of a holder
type Share struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string          `sql:"size:36;unique_index:share_idx" json:"user_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPoolStore pool store interface
type IPoolStore interface {
	Init(ctx context.Context, assetID string) error
	Load(ctx context.Context) (*Pool, error)
	Update(ctx context.Context, tx *db.DB, pool *Pool) error
	FindShare(ctx context.Context, userID string) (*Share, error)
	SaveShare(ctx context.Context, tx *db.DB, share *Share) error
	AllShares(ctx context.Context) ([]*Share, error)
}

// IPoolService liquidity pool accounting interface
type IPoolService interface {
	SupplyLiquidity(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	RedeemLiquidity(ctx context.Context, userID string, shares decimal.Decimal) (decimal.Decimal, error)
	GetUtilization(ctx context.Context) (decimal.Decimal, error)
	CurBorrowRate(ctx context.Context) (decimal.Decimal, error)
	Pool(ctx context.Context) (*Pool, error)
}

// FlashLoanReceiver receives flash loaned funds. OnFlashLoan must return
// amount plus fee to the pool through repay before it returns; the module
// verifies the post call pool balance instead of trusting the error value.
type FlashLoanReceiver interface {
	// Account wallet account the loan is credited to
	Account() string
	OnFlashLoan(ctx context.Context, repay RepayFunc, amount, fee decimal.Decimal, data []byte) error
}

// RepayFunc transfers funds from the receiver account back to the pool
// within the flash loan transaction
type RepayFunc func(amount decimal.Decimal) error

// IFlashLoanService flash loan interface
type IFlashLoanService interface {
	FlashLoan(ctx context.Context, receiver FlashLoanReceiver, amount decimal.Decimal, data []byte) error
}
