// Package memstore provides in memory store implementations backing the
// service tests. Mutations ignore the tx handle; the fake Txer runs the
// closure directly.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"lendefi/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Txer fake transactor, no rollback
type Txer struct{}

// Tx implements core.Txer
func (Txer) Tx(fn func(tx *db.DB) error) error {
	return fn(nil)
}

// AssetStore in memory asset store
type AssetStore struct {
	mu     sync.Mutex
	assets map[string]*core.Asset
}

// NewAssetStore new asset store
func NewAssetStore() *AssetStore {
	return &AssetStore{assets: make(map[string]*core.Asset)}
}

func (s *AssetStore) Save(ctx context.Context, _ *db.DB, asset *core.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *asset
	s.assets[asset.AssetID] = &clone
	return nil
}

func (s *AssetStore) Find(ctx context.Context, assetID string) (*core.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, ok := s.assets[assetID]
	if !ok {
		return nil, nil
	}

	clone := *asset
	return &clone, nil
}

func (s *AssetStore) All(ctx context.Context) ([]*core.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets := make([]*core.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		clone := *a
		assets = append(assets, &clone)
	}

	return assets, nil
}

func (s *AssetStore) AllAsMap(ctx context.Context) (map[string]*core.Asset, error) {
	assets, _ := s.All(ctx)
	maps := make(map[string]*core.Asset, len(assets))
	for _, a := range assets {
		maps[a.AssetID] = a
	}

	return maps, nil
}

func (s *AssetStore) Update(ctx context.Context, _ *db.DB, asset *core.Asset) error {
	asset.Version++
	return s.Save(ctx, nil, asset)
}

// TierStore in memory tier store
type TierStore struct {
	mu     sync.Mutex
	params map[core.Tier]*core.TierParams
}

// NewTierStore tier store seeded with the defaults
func NewTierStore() *TierStore {
	s := &TierStore{params: make(map[core.Tier]*core.TierParams)}
	_ = s.Init(context.Background(), core.DefaultTierParams())
	return s
}

func (s *TierStore) Init(ctx context.Context, params []*core.TierParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range params {
		if _, ok := s.params[p.Tier]; ok {
			continue
		}

		clone := *p
		s.params[p.Tier] = &clone
	}

	return nil
}

func (s *TierStore) Find(ctx context.Context, tier core.Tier) (*core.TierParams, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	params, ok := s.params[tier]
	if !ok {
		return nil, nil
	}

	clone := *params
	return &clone, nil
}

func (s *TierStore) All(ctx context.Context) ([]*core.TierParams, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	params := make([]*core.TierParams, 0, len(s.params))
	for tier := core.TierStable; tier <= core.TierIsolated; tier++ {
		if p, ok := s.params[tier]; ok {
			clone := *p
			params = append(params, &clone)
		}
	}

	return params, nil
}

func (s *TierStore) Update(ctx context.Context, _ *db.DB, params *core.TierParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	params.Version++
	clone := *params
	s.params[params.Tier] = &clone
	return nil
}

// PositionStore in memory position + collateral store
type PositionStore struct {
	mu          sync.Mutex
	positions   map[string]*core.Position
	collaterals map[string]*core.Collateral
}

// NewPositionStore new position store
func NewPositionStore() *PositionStore {
	return &PositionStore{
		positions:   make(map[string]*core.Position),
		collaterals: make(map[string]*core.Collateral),
	}
}

func positionKey(userID string, positionID int64) string {
	return fmt.Sprintf("%s:%d", userID, positionID)
}

func collateralKey(userID string, positionID int64, assetID string) string {
	return fmt.Sprintf("%s:%d:%s", userID, positionID, assetID)
}

func (s *PositionStore) Create(ctx context.Context, _ *db.DB, position *core.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *position
	s.positions[positionKey(position.UserID, position.PositionID)] = &clone
	return nil
}

func (s *PositionStore) Find(ctx context.Context, userID string, positionID int64) (*core.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	position, ok := s.positions[positionKey(userID, positionID)]
	if !ok {
		return nil, nil
	}

	clone := *position
	return &clone, nil
}

func (s *PositionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var positions []*core.Position
	var id int64
	for {
		p, ok := s.positions[positionKey(userID, id)]
		if !ok {
			break
		}

		clone := *p
		positions = append(positions, &clone)
		id++
	}

	return positions, nil
}

func (s *PositionStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	positions, _ := s.FindByUser(ctx, userID)
	return int64(len(positions)), nil
}

func (s *PositionStore) Update(ctx context.Context, _ *db.DB, position *core.Position) error {
	position.Version++
	return s.Create(ctx, nil, position)
}

func (s *PositionStore) FindCollateral(ctx context.Context, userID string, positionID int64, assetID string) (*core.Collateral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collateral, ok := s.collaterals[collateralKey(userID, positionID, assetID)]
	if !ok {
		return nil, nil
	}

	clone := *collateral
	return &clone, nil
}

func (s *PositionStore) ListCollaterals(ctx context.Context, userID string, positionID int64) ([]*core.Collateral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var collaterals []*core.Collateral
	for _, c := range s.collaterals {
		if c.UserID == userID && c.PositionID == positionID {
			clone := *c
			collaterals = append(collaterals, &clone)
		}
	}

	return collaterals, nil
}

func (s *PositionStore) SaveCollateral(ctx context.Context, _ *db.DB, collateral *core.Collateral) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *collateral
	s.collaterals[collateralKey(collateral.UserID, collateral.PositionID, collateral.AssetID)] = &clone
	return nil
}

func (s *PositionStore) UpdateCollateral(ctx context.Context, _ *db.DB, collateral *core.Collateral) error {
	collateral.Version++
	return s.SaveCollateral(ctx, nil, collateral)
}

// PoolStore in memory pool store
type PoolStore struct {
	mu     sync.Mutex
	pool   *core.Pool
	shares map[string]*core.Share
}

// NewPoolStore pool store with a zeroed pool row
func NewPoolStore(assetID string) *PoolStore {
	s := &PoolStore{shares: make(map[string]*core.Share)}
	_ = s.Init(context.Background(), assetID)
	return s
}

func (s *PoolStore) Init(ctx context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil {
		return nil
	}

	s.pool = &core.Pool{
		ID:              1,
		AssetID:         assetID,
		Balance:         decimal.Zero,
		TotalSupplied:   decimal.Zero,
		TotalBorrow:     decimal.Zero,
		InterestAccrued: decimal.Zero,
		FlashLoanFees:   decimal.Zero,
		TotalShares:     decimal.Zero,
	}
	return nil
}

func (s *PoolStore) Load(ctx context.Context) (*core.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *s.pool
	return &clone, nil
}

func (s *PoolStore) Update(ctx context.Context, _ *db.DB, pool *core.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool.Version++
	clone := *pool
	s.pool = &clone
	return nil
}

func (s *PoolStore) FindShare(ctx context.Context, userID string) (*core.Share, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	share, ok := s.shares[userID]
	if !ok {
		return nil, nil
	}

	clone := *share
	return &clone, nil
}

func (s *PoolStore) SaveShare(ctx context.Context, _ *db.DB, share *core.Share) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *share
	s.shares[share.UserID] = &clone
	return nil
}

func (s *PoolStore) AllShares(ctx context.Context) ([]*core.Share, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shares := make([]*core.Share, 0, len(s.shares))
	for _, sh := range s.shares {
		clone := *sh
		shares = append(shares, &clone)
	}

	return shares, nil
}

// WalletStore in memory token balance store
type WalletStore struct {
	mu       sync.Mutex
	balances map[string]*core.Balance
}

// NewWalletStore new wallet store
func NewWalletStore() *WalletStore {
	return &WalletStore{balances: make(map[string]*core.Balance)}
}

func balanceKey(account, assetID string) string {
	return account + ":" + assetID
}

// Deposit seed an account balance, test setup only
func (s *WalletStore) Deposit(account, assetID string, amount decimal.Decimal) {
	_ = s.Add(context.Background(), nil, account, assetID, amount)
}

func (s *WalletStore) Find(ctx context.Context, account, assetID string) (*core.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, ok := s.balances[balanceKey(account, assetID)]
	if !ok {
		return nil, nil
	}

	clone := *balance
	return &clone, nil
}

func (s *WalletStore) FindByAccount(ctx context.Context, account string) ([]*core.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var balances []*core.Balance
	for _, b := range s.balances {
		if b.Account == account {
			clone := *b
			balances = append(balances, &clone)
		}
	}

	return balances, nil
}

func (s *WalletStore) Add(ctx context.Context, _ *db.DB, account, assetID string, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := balanceKey(account, assetID)
	balance, ok := s.balances[key]
	if !ok {
		if delta.IsNegative() {
			return core.ErrInsufficientBalance
		}

		s.balances[key] = &core.Balance{Account: account, AssetID: assetID, Amount: delta}
		return nil
	}

	next := balance.Amount.Add(delta)
	if next.IsNegative() {
		return core.ErrInsufficientBalance
	}

	balance.Amount = next
	return nil
}

// TransactionStore in memory journal
type TransactionStore struct {
	mu           sync.Mutex
	transactions []*core.Transaction
}

// NewTransactionStore new transaction store
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

func (s *TransactionStore) Create(ctx context.Context, _ *db.DB, transaction *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *transaction
	clone.ID = uint64(len(s.transactions) + 1)
	s.transactions = append(s.transactions, &clone)
	return nil
}

func (s *TransactionStore) List(ctx context.Context, from uint64, limit int) ([]*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*core.Transaction
	for _, t := range s.transactions {
		if t.ID > from {
			clone := *t
			out = append(out, &clone)
			if len(out) >= limit {
				break
			}
		}
	}

	return out, nil
}

func (s *TransactionStore) FindByUser(ctx context.Context, userID string, limit int) ([]*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*core.Transaction
	for i := len(s.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if s.transactions[i].UserID == userID {
			clone := *s.transactions[i]
			out = append(out, &clone)
		}
	}

	return out, nil
}
