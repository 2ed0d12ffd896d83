package asset

import (
	"context"

	"lendefi/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type tierStore struct {
	db *db.DB
}

// NewTier new tier params store
func NewTier(db *db.DB) core.ITierStore {
	return &tierStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.TierParams{})
		if err := tx.AutoMigrate(core.TierParams{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Init seed the four tiers once, keeping existing rows untouched
func (s *tierStore) Init(ctx context.Context, params []*core.TierParams) error {
	return s.db.Tx(func(tx *db.DB) error {
		for _, p := range params {
			var existing core.TierParams
			err := tx.Update().Where("tier=?", p.Tier).First(&existing).Error
			if err == nil {
				continue
			}

			if !gorm.IsRecordNotFoundError(err) {
				return err
			}

			if err := tx.Update().Create(p).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *tierStore) Find(ctx context.Context, tier core.Tier) (*core.TierParams, error) {
	var params core.TierParams
	if err := s.db.View().Where("tier=?", tier).First(&params).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return &params, nil
}

func (s *tierStore) All(ctx context.Context) ([]*core.TierParams, error) {
	var params []*core.TierParams
	if err := s.db.View().Order("tier").Find(&params).Error; err != nil {
		return nil, err
	}

	return params, nil
}

func (s *tierStore) Update(ctx context.Context, tx *db.DB, params *core.TierParams) error {
	version := params.Version
	params.Version++
	return tx.Update().Model(core.TierParams{}).
		Where("tier=? and version=?", params.Tier, version).
		Update(params).Error
}
