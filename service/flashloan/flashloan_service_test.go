package flashloan

import (
	"context"
	"errors"
	"testing"

	"lendefi/core"
	"lendefi/internal/memstore"
	"lendefi/service/wallet"

	"github.com/bmizerany/assert"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const poolAsset = "stablecoin"

type testEnv struct {
	ctx          context.Context
	pools        *memstore.PoolStore
	wallets      *memstore.WalletStore
	sysconfig    *memstore.SysConfig
	transactions *memstore.TransactionStore
	service      core.IFlashLoanService
}

func newTestEnv(t *testing.T, poolBalance int64) *testEnv {
	t.Helper()

	env := &testEnv{
		ctx:          context.Background(),
		pools:        memstore.NewPoolStore(poolAsset),
		wallets:      memstore.NewWalletStore(),
		transactions: memstore.NewTransactionStore(),
	}

	env.sysconfig = memstore.NewSysConfig(&core.System{Managers: []string{"admin"}})

	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	pool.Balance = decimal.NewFromInt(poolBalance)
	pool.TotalSupplied = decimal.NewFromInt(poolBalance)
	require.Nil(t, env.pools.Update(env.ctx, nil, pool))
	env.wallets.Deposit(core.PoolAccount, poolAsset, decimal.NewFromInt(poolBalance))

	env.service = New(
		memstore.Txer{},
		env.pools,
		wallet.New(env.wallets),
		env.sysconfig,
		env.transactions,
	)

	return env
}

// receiver scripted flash loan receiver
type receiver struct {
	account string
	onLoan  func(ctx context.Context, repay core.RepayFunc, amount, fee decimal.Decimal, data []byte) error
}

func (r *receiver) Account() string {
	return r.account
}

func (r *receiver) OnFlashLoan(ctx context.Context, repay core.RepayFunc, amount, fee decimal.Decimal, data []byte) error {
	return r.onLoan(ctx, repay, amount, fee, data)
}

func TestFlashLoan(t *testing.T) {
	env := newTestEnv(t, 1000000)

	// the receiver covers the fee from its own funds
	env.wallets.Deposit("arb", poolAsset, decimal.NewFromInt(100))

	r := &receiver{
		account: "arb",
		onLoan: func(ctx context.Context, repay core.RepayFunc, amount, fee decimal.Decimal, data []byte) error {
			return repay(amount.Add(fee))
		},
	}

	require.Nil(t, env.service.FlashLoan(env.ctx, r, decimal.NewFromInt(100000), nil))

	// default fee is 9 bps
	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "90", pool.FlashLoanFees.String())
	assert.Equal(t, "1000090", pool.Balance.String())

	balance, err := env.wallets.Find(env.ctx, "arb", poolAsset)
	require.Nil(t, err)
	assert.Equal(t, "10", balance.Amount.String())

	transactions, err := env.transactions.FindByUser(env.ctx, "arb", 10)
	require.Nil(t, err)
	assert.Equal(t, 1, len(transactions))
	assert.Equal(t, core.ActionFlashLoan, transactions[0].Action)

	// fees accumulate across loans
	require.Nil(t, env.service.FlashLoan(env.ctx, r, decimal.NewFromInt(10000), nil))

	pool, err = env.pools.Load(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "99", pool.FlashLoanFees.String())
}

func TestFlashLoanShortRepayment(t *testing.T) {
	env := newTestEnv(t, 1000000)
	env.wallets.Deposit("arb", poolAsset, decimal.NewFromInt(100))

	r := &receiver{
		account: "arb",
		onLoan: func(ctx context.Context, repay core.RepayFunc, amount, fee decimal.Decimal, data []byte) error {
			// repays the principal but keeps the fee
			return repay(amount)
		},
	}

	err := env.service.FlashLoan(env.ctx, r, decimal.NewFromInt(100000), nil)
	assert.Equal(t, core.ErrRepaymentFailed, err)
}

func TestFlashLoanCallbackError(t *testing.T) {
	env := newTestEnv(t, 1000000)

	r := &receiver{
		account: "arb",
		onLoan: func(ctx context.Context, repay core.RepayFunc, amount, fee decimal.Decimal, data []byte) error {
			return errors.New("strategy failed")
		},
	}

	err := env.service.FlashLoan(env.ctx, r, decimal.NewFromInt(100000), nil)
	assert.Equal(t, core.ErrFlashLoanFailed, err)
}

func TestFlashLoanGuards(t *testing.T) {
	env := newTestEnv(t, 1000)

	r := &receiver{
		account: "arb",
		onLoan: func(ctx context.Context, repay core.RepayFunc, amount, fee decimal.Decimal, data []byte) error {
			return repay(amount.Add(fee))
		},
	}

	err := env.service.FlashLoan(env.ctx, r, decimal.Zero, nil)
	assert.Equal(t, core.ErrZeroAmount, err)

	err = env.service.FlashLoan(env.ctx, r, decimal.NewFromInt(2000), nil)
	assert.Equal(t, core.ErrLowLiquidity, err)

	require.Nil(t, env.sysconfig.Pause(env.ctx, "admin"))
	err = env.service.FlashLoan(env.ctx, r, decimal.NewFromInt(100), nil)
	assert.Equal(t, core.ErrPaused, err)
}
