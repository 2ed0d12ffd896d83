package pool

import (
	"context"
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
	service      core.IPoolService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		ctx:          context.Background(),
		pools:        memstore.NewPoolStore(poolAsset),
		wallets:      memstore.NewWalletStore(),
		transactions: memstore.NewTransactionStore(),
	}

	env.sysconfig = memstore.NewSysConfig(&core.System{
		Managers: []string{"admin"},
		Pausers:  []string{"guardian"},
	})

	env.service = New(
		memstore.Txer{},
		env.pools,
		wallet.New(env.wallets),
		env.sysconfig,
		env.transactions,
	)

	return env
}

func TestSupplyLiquidityShares(t *testing.T) {
	env := newTestEnv(t)
	env.wallets.Deposit("alice", poolAsset, decimal.NewFromInt(10000))
	env.wallets.Deposit("bob", poolAsset, decimal.NewFromInt(5000))

	// first supplier mints one for one
	minted, err := env.service.SupplyLiquidity(env.ctx, "alice", decimal.NewFromInt(10000))
	require.Nil(t, err)
	assert.Equal(t, "10000", minted.String())

	// accrued interest inflates the pool value to 12500
	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	pool.Balance = pool.Balance.Add(decimal.NewFromInt(2500))
	pool.InterestAccrued = decimal.NewFromInt(2500)
	require.Nil(t, env.pools.Update(env.ctx, nil, pool))
	env.wallets.Deposit(core.PoolAccount, poolAsset, decimal.NewFromInt(2500))

	minted, err = env.service.SupplyLiquidity(env.ctx, "bob", decimal.NewFromInt(5000))
	require.Nil(t, err)
	assert.Equal(t, "4000", minted.String())

	pool, err = env.pools.Load(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "14000", pool.TotalShares.String())
	assert.Equal(t, "17500", pool.Balance.String())
}

func TestRedeemLiquidity(t *testing.T) {
	env := newTestEnv(t)
	env.wallets.Deposit("alice", poolAsset, decimal.NewFromInt(10000))

	_, err := env.service.SupplyLiquidity(env.ctx, "alice", decimal.NewFromInt(10000))
	require.Nil(t, err)

	_, err = env.service.RedeemLiquidity(env.ctx, "alice", decimal.NewFromInt(20000))
	assert.Equal(t, core.ErrInsufficientBalance, err)

	amount, err := env.service.RedeemLiquidity(env.ctx, "alice", decimal.NewFromInt(4000))
	require.Nil(t, err)
	assert.Equal(t, "4000", amount.String())

	balance, err := env.wallets.Find(env.ctx, "alice", poolAsset)
	require.Nil(t, err)
	assert.Equal(t, "4000", balance.Amount.String())

	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "6000", pool.TotalShares.String())
	assert.Equal(t, "6000", pool.Balance.String())
}

func TestRedeemLowLiquidity(t *testing.T) {
	env := newTestEnv(t)
	env.wallets.Deposit("alice", poolAsset, decimal.NewFromInt(10000))

	_, err := env.service.SupplyLiquidity(env.ctx, "alice", decimal.NewFromInt(10000))
	require.Nil(t, err)

	// most of the pool is out on loan
	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	pool.Balance = decimal.NewFromInt(1000)
	pool.TotalBorrow = decimal.NewFromInt(9000)
	require.Nil(t, env.pools.Update(env.ctx, nil, pool))

	_, err = env.service.RedeemLiquidity(env.ctx, "alice", decimal.NewFromInt(5000))
	assert.Equal(t, core.ErrLowLiquidity, err)

	amount, err := env.service.RedeemLiquidity(env.ctx, "alice", decimal.NewFromInt(1000))
	require.Nil(t, err)
	assert.Equal(t, "1000", amount.String())
}

func TestUtilizationAndBorrowRate(t *testing.T) {
	env := newTestEnv(t)

	utilization, err := env.service.GetUtilization(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "0", utilization.String())

	env.wallets.Deposit("alice", poolAsset, decimal.NewFromInt(10000))
	_, err = env.service.SupplyLiquidity(env.ctx, "alice", decimal.NewFromInt(10000))
	require.Nil(t, err)

	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	pool.Balance = decimal.NewFromInt(5000)
	pool.TotalBorrow = decimal.NewFromInt(5000)
	require.Nil(t, env.pools.Update(env.ctx, nil, pool))

	utilization, err = env.service.GetUtilization(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "0.5", utilization.String())

	// base 6% plus 0.5 * 20% below the kink
	rate, err := env.service.CurBorrowRate(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "0.16", rate.String())
}

func TestSupplyLiquidityGuards(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.SupplyLiquidity(env.ctx, "alice", decimal.Zero)
	assert.Equal(t, core.ErrZeroAmount, err)

	require.Nil(t, env.sysconfig.Pause(env.ctx, "guardian"))

	_, err = env.service.SupplyLiquidity(env.ctx, "alice", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrPaused, err)

	_, err = env.service.RedeemLiquidity(env.ctx, "alice", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrPaused, err)
}
