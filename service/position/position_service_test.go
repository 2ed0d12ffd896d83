package position

import (
	"context"
	"testing"
	"time"

	"lendefi/core"
	"lendefi/internal/ledger"
	"lendefi/internal/memstore"
	"lendefi/service/wallet"

	"github.com/bmizerany/assert"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const poolAsset = "stablecoin"

type testEnv struct {
	ctx          context.Context
	assets       *memstore.AssetStore
	tiers        *memstore.TierStore
	positions    *memstore.PositionStore
	pools        *memstore.PoolStore
	wallets      *memstore.WalletStore
	oracle       *memstore.Oracle
	sysconfig    *memstore.SysConfig
	transactions *memstore.TransactionStore
	service      core.IPositionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		ctx:          context.Background(),
		assets:       memstore.NewAssetStore(),
		tiers:        memstore.NewTierStore(),
		positions:    memstore.NewPositionStore(),
		pools:        memstore.NewPoolStore(poolAsset),
		wallets:      memstore.NewWalletStore(),
		oracle:       memstore.NewOracle(),
		transactions: memstore.NewTransactionStore(),
	}

	env.sysconfig = memstore.NewSysConfig(&core.System{
		Managers: []string{"admin"},
		Pausers:  []string{"guardian"},
	})

	env.service = New(
		memstore.Txer{},
		env.assets,
		env.tiers,
		env.positions,
		env.pools,
		env.oracle,
		wallet.New(env.wallets),
		env.sysconfig,
		env.transactions,
		ledger.LinearModel{},
	)

	return env
}

func (env *testEnv) listAsset(t *testing.T, assetID string, price int64, borrowTh, liqTh int64, tier core.Tier) *core.Asset {
	t.Helper()

	asset := &core.Asset{
		AssetID:              assetID,
		Symbol:               assetID,
		Active:               true,
		Decimals:             8,
		BorrowThreshold:      borrowTh,
		LiquidationThreshold: liqTh,
		Tier:                 tier,
	}
	require.Nil(t, env.assets.Save(env.ctx, nil, asset))
	env.oracle.SetPrice(assetID, decimal.NewFromInt(price))
	return asset
}

func (env *testEnv) fundPool(t *testing.T, amount int64) {
	t.Helper()

	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	pool.Balance = pool.Balance.Add(decimal.NewFromInt(amount))
	pool.TotalSupplied = pool.TotalSupplied.Add(decimal.NewFromInt(amount))
	require.Nil(t, env.pools.Update(env.ctx, nil, pool))
	env.wallets.Deposit(core.PoolAccount, poolAsset, decimal.NewFromInt(amount))
}

func TestCreatePosition(t *testing.T) {
	env := newTestEnv(t)

	p0, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)
	assert.Equal(t, int64(0), p0.PositionID)

	p1, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)
	assert.Equal(t, int64(1), p1.PositionID)

	_, err = env.service.CreatePosition(env.ctx, "alice", "btc", true)
	assert.Equal(t, core.ErrAssetNotListed, err)

	env.listAsset(t, "btc", 50000, 650, 800, core.TierIsolated)
	p2, err := env.service.CreatePosition(env.ctx, "alice", "btc", true)
	require.Nil(t, err)
	assert.Equal(t, true, p2.Isolated)
	assert.Equal(t, "btc", p2.IsolatedAssetID)
}

func TestCreditLimit(t *testing.T) {
	env := newTestEnv(t)
	env.listAsset(t, "eth", 1000, 650, 800, core.TierCrossA)
	env.wallets.Deposit("alice", "eth", decimal.NewFromInt(10))

	p, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)

	limit, err := env.service.CalculateCreditLimit(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, "0", limit.String())

	err = env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(10))
	require.Nil(t, err)

	limit, err = env.service.CalculateCreditLimit(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, "6500", limit.String())
}

func TestBorrowBoundary(t *testing.T) {
	env := newTestEnv(t)
	env.listAsset(t, "eth", 1000, 650, 800, core.TierCrossA)
	env.wallets.Deposit("alice", "eth", decimal.NewFromInt(10))
	env.fundPool(t, 10000)

	p, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)
	require.Nil(t, env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(10)))

	err = env.service.Borrow(env.ctx, "alice", p.PositionID, decimal.NewFromInt(6501))
	assert.Equal(t, core.ErrCreditLimitExceeded, err)

	require.Nil(t, env.service.Borrow(env.ctx, "alice", p.PositionID, decimal.NewFromInt(6500)))

	balance, err := env.wallets.Find(env.ctx, "alice", poolAsset)
	require.Nil(t, err)
	assert.Equal(t, "6500", balance.Amount.String())

	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "3500", pool.Balance.String())
	assert.Equal(t, "6500", pool.TotalBorrow.String())

	// fully drawn, any further borrow exceeds the limit
	err = env.service.Borrow(env.ctx, "alice", p.PositionID, decimal.New(1, -6))
	assert.Equal(t, core.ErrCreditLimitExceeded, err)
}

func TestBorrowLowLiquidity(t *testing.T) {
	env := newTestEnv(t)
	env.listAsset(t, "eth", 1000, 650, 800, core.TierCrossA)
	env.wallets.Deposit("alice", "eth", decimal.NewFromInt(10))
	env.fundPool(t, 100)

	p, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)
	require.Nil(t, env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(10)))

	err = env.service.Borrow(env.ctx, "alice", p.PositionID, decimal.NewFromInt(200))
	assert.Equal(t, core.ErrLowLiquidity, err)
}

func TestRepayExcessPreserved(t *testing.T) {
	env := newTestEnv(t)
	env.listAsset(t, "eth", 1000, 650, 800, core.TierCrossA)
	env.wallets.Deposit("alice", "eth", decimal.NewFromInt(10))
	env.fundPool(t, 10000)

	p, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)
	require.Nil(t, env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(10)))
	require.Nil(t, env.service.Borrow(env.ctx, "alice", p.PositionID, decimal.NewFromInt(6500)))

	env.wallets.Deposit("alice", poolAsset, decimal.NewFromInt(3500))

	actual, err := env.service.Repay(env.ctx, "alice", p.PositionID, decimal.NewFromInt(10000))
	require.Nil(t, err)
	assert.Equal(t, "6500", actual.String())

	balance, err := env.wallets.Find(env.ctx, "alice", poolAsset)
	require.Nil(t, err)
	assert.Equal(t, "3500", balance.Amount.String())

	position, err := env.positions.Find(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, "0", position.Debt().String())

	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "0", pool.TotalBorrow.String())
	assert.Equal(t, "10000", pool.Balance.String())

	// debt free repay pulls nothing
	actual, err = env.service.Repay(env.ctx, "alice", p.PositionID, decimal.NewFromInt(100))
	require.Nil(t, err)
	assert.Equal(t, "0", actual.String())
}

func TestRepaySettlesInterestFirst(t *testing.T) {
	env := newTestEnv(t)
	env.listAsset(t, "eth", 1000, 650, 800, core.TierCrossA)
	env.fundPool(t, 10000)

	p, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)

	position, err := env.positions.Find(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	position.Principal = decimal.NewFromInt(100)
	position.InterestOwed = decimal.NewFromInt(5)
	position.LastAccruedAt = time.Now().UTC()
	require.Nil(t, env.positions.Update(env.ctx, nil, position))

	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	pool.TotalBorrow = decimal.NewFromInt(100)
	require.Nil(t, env.pools.Update(env.ctx, nil, pool))

	env.wallets.Deposit("alice", poolAsset, decimal.NewFromInt(50))

	actual, err := env.service.Repay(env.ctx, "alice", p.PositionID, decimal.NewFromInt(50))
	require.Nil(t, err)
	assert.Equal(t, "50", actual.String())

	position, err = env.positions.Find(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, "0", position.InterestOwed.String())
	assert.Equal(t, "55", position.Principal.String())

	// total borrow drops by the principal portion only
	pool, err = env.pools.Load(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "55", pool.TotalBorrow.String())
	assert.Equal(t, "5", pool.InterestAccrued.String())
}

func TestPositionTierMixing(t *testing.T) {
	env := newTestEnv(t)
	env.listAsset(t, "usdc", 1, 900, 950, core.TierStable)
	env.listAsset(t, "doge", 1, 300, 400, core.TierIsolated)
	env.wallets.Deposit("alice", "usdc", decimal.NewFromInt(100))
	env.wallets.Deposit("alice", "doge", decimal.NewFromInt(100))

	p, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)

	tier, err := env.service.GetPositionTier(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, core.TierStable, tier)

	require.Nil(t, env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "usdc", decimal.NewFromInt(100)))
	tier, err = env.service.GetPositionTier(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, core.TierStable, tier)

	// the riskier asset drags the whole position to its tier
	require.Nil(t, env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "doge", decimal.NewFromInt(1)))
	tier, err = env.service.GetPositionTier(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, core.TierIsolated, tier)

	fee, err := env.service.GetPositionLiquidationFee(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, int64(40000), fee)
}

func TestWithdrawGuard(t *testing.T) {
	env := newTestEnv(t)
	env.listAsset(t, "eth", 1000, 650, 800, core.TierCrossA)
	env.wallets.Deposit("alice", "eth", decimal.NewFromInt(10))
	env.fundPool(t, 10000)

	p, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)
	require.Nil(t, env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(10)))
	require.Nil(t, env.service.Borrow(env.ctx, "alice", p.PositionID, decimal.NewFromInt(3250)))

	// 5 eth of credit remain after withdrawing 5, exactly covering the debt
	require.Nil(t, env.service.WithdrawCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(5)))

	err = env.service.WithdrawCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrInsufficientCollateral, err)

	err = env.service.WithdrawCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(100))
	assert.Equal(t, core.ErrInsufficientCollateral, err)

	env.wallets.Deposit("alice", poolAsset, decimal.NewFromInt(3250))
	_, err = env.service.Repay(env.ctx, "alice", p.PositionID, decimal.NewFromInt(3250))
	require.Nil(t, err)

	require.Nil(t, env.service.WithdrawCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(5)))

	balance, err := env.wallets.Find(env.ctx, "alice", "eth")
	require.Nil(t, err)
	assert.Equal(t, "10", balance.Amount.String())
}

func TestIsolationRules(t *testing.T) {
	env := newTestEnv(t)
	btc := env.listAsset(t, "btc", 1000, 650, 800, core.TierIsolated)
	env.listAsset(t, "eth", 1000, 650, 800, core.TierCrossA)
	env.wallets.Deposit("alice", "btc", decimal.NewFromInt(10))
	env.wallets.Deposit("alice", "eth", decimal.NewFromInt(10))
	env.fundPool(t, 10000)

	p, err := env.service.CreatePosition(env.ctx, "alice", "btc", true)
	require.Nil(t, err)

	err = env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrIsolatedAssetMismatch, err)

	require.Nil(t, env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "btc", decimal.NewFromInt(1)))

	btc.IsolationDebtCap = decimal.NewFromInt(100)
	require.Nil(t, env.assets.Update(env.ctx, nil, btc))

	err = env.service.Borrow(env.ctx, "alice", p.PositionID, decimal.NewFromInt(150))
	assert.Equal(t, core.ErrIsolationDebtCapExceeded, err)

	require.Nil(t, env.service.Borrow(env.ctx, "alice", p.PositionID, decimal.NewFromInt(100)))
}

func TestSupplyCap(t *testing.T) {
	env := newTestEnv(t)
	asset := env.listAsset(t, "eth", 1000, 650, 800, core.TierCrossA)
	asset.MaxSupply = decimal.NewFromInt(5)
	require.Nil(t, env.assets.Update(env.ctx, nil, asset))
	env.wallets.Deposit("alice", "eth", decimal.NewFromInt(10))

	p, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)

	err = env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(6))
	assert.Equal(t, core.ErrSupplyCapExceeded, err)

	require.Nil(t, env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(5)))

	err = env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.New(1, -8))
	assert.Equal(t, core.ErrSupplyCapExceeded, err)
}

func TestPausedRejectsMutations(t *testing.T) {
	env := newTestEnv(t)
	env.listAsset(t, "eth", 1000, 650, 800, core.TierCrossA)
	require.Nil(t, env.sysconfig.Pause(env.ctx, "guardian"))

	_, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	assert.Equal(t, core.ErrPaused, err)

	err = env.service.SupplyCollateral(env.ctx, "alice", 0, "eth", decimal.NewFromInt(1))
	assert.Equal(t, core.ErrPaused, err)

	err = env.service.Borrow(env.ctx, "alice", 0, decimal.NewFromInt(1))
	assert.Equal(t, core.ErrPaused, err)

	_, err = env.service.Repay(env.ctx, "alice", 0, decimal.NewFromInt(1))
	assert.Equal(t, core.ErrPaused, err)

	err = env.sysconfig.Resume(env.ctx, "mallory")
	assert.Equal(t, core.ErrUnauthorized, err)

	// a pauser may lift the halt, not only a manager
	require.Nil(t, env.sysconfig.Resume(env.ctx, "guardian"))

	_, err = env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)
}

func TestHealthFactorAndLiquidate(t *testing.T) {
	env := newTestEnv(t)
	env.listAsset(t, "eth", 1000, 650, 800, core.TierCrossA)
	env.wallets.Deposit("alice", "eth", decimal.NewFromInt(10))
	env.fundPool(t, 10000)

	p, err := env.service.CreatePosition(env.ctx, "alice", "", false)
	require.Nil(t, err)
	require.Nil(t, env.service.SupplyCollateral(env.ctx, "alice", p.PositionID, "eth", decimal.NewFromInt(10)))

	hf, err := env.service.HealthFactor(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, ledger.MaxHealthFactor.String(), hf.String())

	require.Nil(t, env.service.Borrow(env.ctx, "alice", p.PositionID, decimal.NewFromInt(6500)))

	// 8000 of liquidation value over 6500 of debt
	hf, err = env.service.HealthFactor(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, true, hf.GreaterThan(decimal.New(1, 0)))

	err = env.service.Liquidate(env.ctx, "bob", "alice", p.PositionID)
	assert.Equal(t, core.ErrUnauthorized, err)

	require.Nil(t, env.pools.SaveShare(env.ctx, nil, &core.Share{
		UserID: "bob",
		Amount: core.DefaultProtocolConfig().LiquidatorThreshold,
	}))

	err = env.service.Liquidate(env.ctx, "bob", "alice", p.PositionID)
	assert.Equal(t, core.ErrNotLiquidatable, err)

	// price collapse drives the health factor under one
	env.oracle.SetPrice("eth", decimal.NewFromInt(500))

	liquidatable, err := env.service.IsLiquidatable(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, true, liquidatable)

	env.wallets.Deposit("bob", poolAsset, decimal.NewFromInt(6500))
	require.Nil(t, env.service.Liquidate(env.ctx, "bob", "alice", p.PositionID))

	position, err := env.positions.Find(env.ctx, "alice", p.PositionID)
	require.Nil(t, err)
	assert.Equal(t, "0", position.Debt().String())

	// cross tier A charges a 2% liquidation fee on seized collateral
	seized, err := env.wallets.Find(env.ctx, "bob", "eth")
	require.Nil(t, err)
	assert.Equal(t, "9.8", seized.Amount.String())

	fee, err := env.wallets.Find(env.ctx, core.TreasuryAccount, "eth")
	require.Nil(t, err)
	assert.Equal(t, "0.2", fee.Amount.String())

	pool, err := env.pools.Load(env.ctx)
	require.Nil(t, err)
	assert.Equal(t, "0", pool.TotalBorrow.String())
	assert.Equal(t, "10000", pool.Balance.String())
}
