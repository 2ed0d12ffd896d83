package price

import (
	"context"

	"lendefi/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.IPriceStore {
	return &priceStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})
		if err := tx.AutoMigrate(core.Price{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Save upsert the latest price of an asset
func (s *priceStore) Save(ctx context.Context, tx *db.DB, price *core.Price) error {
	var existing core.Price
	err := tx.Update().Where("asset_id=?", price.AssetID).First(&existing).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return tx.Update().Create(price).Error
		}

		return err
	}

	existing.Price = price.Price
	existing.PriceTime = price.PriceTime
	existing.Content = price.Content

	version := existing.Version
	existing.Version++
	return tx.Update().Model(core.Price{}).
		Where("asset_id=? and version=?", existing.AssetID, version).
		Update(existing).Error
}

func (s *priceStore) Latest(ctx context.Context, assetID string) (*core.Price, error) {
	var price core.Price
	if err := s.db.View().Where("asset_id=?", assetID).First(&price).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return &price, nil
}

func (s *priceStore) All(ctx context.Context) ([]*core.Price, error) {
	var prices []*core.Price
	if err := s.db.View().Find(&prices).Error; err != nil {
		return nil, err
	}

	return prices, nil
}
