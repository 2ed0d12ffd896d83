package flashloan

import (
	"context"

	"lendefi/core"
	"lendefi/internal/ledger"
	"lendefi/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type flashLoanService struct {
	db               core.Txer
	poolStore        core.IPoolStore
	walletService    core.IWalletService
	sysConfigService core.ISysConfigService
	transactionStore core.ITransactionStore
}

// New new flash loan service
func New(
	db core.Txer,
	poolStore core.IPoolStore,
	walletService core.IWalletService,
	sysConfigService core.ISysConfigService,
	transactionStore core.ITransactionStore,
) core.IFlashLoanService {
	return &flashLoanService{
		db:               db,
		poolStore:        poolStore,
		walletService:    walletService,
		sysConfigService: sysConfigService,
		transactionStore: transactionStore,
	}
}

// FlashLoan lends amount to the receiver for the duration of the callback.
// Borrow then verify: the callback runs, and the transfers it actually
// executed must return at least amount plus fee to the pool or the whole
// transaction rolls back. The receiver's error value is never trusted in
// place of the repayment check.
func (s *flashLoanService) FlashLoan(ctx context.Context, receiver core.FlashLoanReceiver, amount decimal.Decimal, data []byte) error {
	if paused, err := s.sysConfigService.Paused(ctx); err != nil {
		return err
	} else if paused {
		return core.ErrPaused
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrZeroAmount
	}

	pool, err := s.poolStore.Load(ctx)
	if err != nil {
		return err
	}

	if amount.GreaterThan(pool.Balance) {
		return core.ErrLowLiquidity
	}

	cfg, err := s.sysConfigService.Get(ctx)
	if err != nil {
		return err
	}

	// the fee cap is enforced at config write time; an out of range value
	// here means the stored config is corrupt
	if cfg.FlashLoanFee < 0 || cfg.FlashLoanFee > core.MaxFlashLoanFee {
		return core.ErrInvalidFee
	}

	fee := ledger.FlashLoanFee(amount, cfg.FlashLoanFee)

	return s.db.Tx(func(tx *db.DB) error {
		if err := s.walletService.Transfer(ctx, tx, core.PoolAccount, receiver.Account(), pool.AssetID, amount); err != nil {
			return err
		}

		// repay is the only credit path back into the pool inside this
		// transaction, so the accumulator is the pool's balance delta
		repaid := decimal.Zero
		repay := func(v decimal.Decimal) error {
			if err := s.walletService.Transfer(ctx, tx, receiver.Account(), core.PoolAccount, pool.AssetID, v); err != nil {
				return err
			}

			repaid = repaid.Add(v)
			return nil
		}

		if err := receiver.OnFlashLoan(ctx, repay, amount, fee, data); err != nil {
			logger.FromContext(ctx).WithError(err).Debugln("flash loan callback failed")
			return core.ErrFlashLoanFailed
		}

		// verify the executed transfers, not the callback's word
		if repaid.LessThan(amount.Add(fee)) {
			return core.ErrRepaymentFailed
		}

		pool.Balance = pool.Balance.Add(fee)
		pool.FlashLoanFees = pool.FlashLoanFees.Add(fee)
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}

		transaction := &core.Transaction{
			TraceID: id.GenTraceID(),
			Action:  core.ActionFlashLoan,
			UserID:  receiver.Account(),
			AssetID: pool.AssetID,
			Amount:  amount,
		}
		transaction.SetContext(map[string]interface{}{"fee": fee})
		return s.transactionStore.Create(ctx, tx, transaction)
	})
}
