package pool

import (
	"context"

	"lendefi/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type poolStore struct {
	db *db.DB
}

// New new pool store
func New(db *db.DB) core.IPoolStore {
	return &poolStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Pool{}).AutoMigrate(core.Pool{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.Share{}).AutoMigrate(core.Share{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Init create the singleton pool row if absent
func (s *poolStore) Init(ctx context.Context, assetID string) error {
	var pool core.Pool
	err := s.db.View().Where("id=1").First(&pool).Error
	if err == nil {
		return nil
	}

	if !gorm.IsRecordNotFoundError(err) {
		return err
	}

	pool = core.Pool{
		ID:              1,
		AssetID:         assetID,
		Balance:         decimal.Zero,
		TotalSupplied:   decimal.Zero,
		TotalBorrow:     decimal.Zero,
		InterestAccrued: decimal.Zero,
		FlashLoanFees:   decimal.Zero,
		TotalShares:     decimal.Zero,
	}
	return s.db.Update().Create(&pool).Error
}

func (s *poolStore) Load(ctx context.Context) (*core.Pool, error) {
	var pool core.Pool
	if err := s.db.View().Where("id=1").First(&pool).Error; err != nil {
		return nil, err
	}

	return &pool, nil
}

func (s *poolStore) Update(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	version := pool.Version
	pool.Version++
	return tx.Update().Model(core.Pool{}).
		Where("id=? and version=?", pool.ID, version).
		Update(pool).Error
}

func (s *poolStore) FindShare(ctx context.Context, userID string) (*core.Share, error) {
	var share core.Share
	if err := s.db.View().Where("user_id=?", userID).First(&share).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return &share, nil
}

func (s *poolStore) SaveShare(ctx context.Context, tx *db.DB, share *core.Share) error {
	if share.ID == 0 {
		return tx.Update().Create(share).Error
	}

	version := share.Version
	share.Version++
	return tx.Update().Model(core.Share{}).
		Where("user_id=? and version=?", share.UserID, version).
		Update(share).Error
}

func (s *poolStore) AllShares(ctx context.Context) ([]*core.Share, error) {
	var shares []*core.Share
	if err := s.db.View().Find(&shares).Error; err != nil {
		return nil, err
	}

	return shares, nil
}
