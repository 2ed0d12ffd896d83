package wallet

import (
	"context"

	"lendefi/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type walletStore struct {
	db *db.DB
}

// New new wallet store
func New(db *db.DB) core.IWalletStore {
	return &walletStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Balance{})
		if err := tx.AutoMigrate(core.Balance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *walletStore) Find(ctx context.Context, account, assetID string) (*core.Balance, error) {
	var balance core.Balance
	if err := s.db.View().Where("account=? and asset_id=?", account, assetID).First(&balance).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return &balance, nil
}

func (s *walletStore) FindByAccount(ctx context.Context, account string) ([]*core.Balance, error) {
	var balances []*core.Balance
	if err := s.db.View().Where("account=?", account).Find(&balances).Error; err != nil {
		return nil, err
	}

	return balances, nil
}

// Add adjusts the balance by delta inside tx. Debits below zero fail with
// ErrInsufficientBalance so the enclosing transaction aborts whole.
func (s *walletStore) Add(ctx context.Context, tx *db.DB, account, assetID string, delta decimal.Decimal) error {
	var balance core.Balance
	err := tx.Update().Where("account=? and asset_id=?", account, assetID).First(&balance).Error
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}

		if delta.IsNegative() {
			return core.ErrInsufficientBalance
		}

		balance = core.Balance{
			Account: account,
			AssetID: assetID,
			Amount:  delta,
		}
		return tx.Update().Create(&balance).Error
	}

	next := balance.Amount.Add(delta)
	if next.IsNegative() {
		return core.ErrInsufficientBalance
	}

	balance.Amount = next
	version := balance.Version
	balance.Version++
	return tx.Update().Model(core.Balance{}).
		Where("account=? and asset_id=? and version=?", account, assetID, version).
		Update(balance).Error
}
