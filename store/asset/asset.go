package asset

import (
	"context"

	"lendefi/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type assetStore struct {
	db *db.DB
}

// New new asset store
func New(db *db.DB) core.IAssetStore {
	return &assetStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Asset{})
		if err := tx.AutoMigrate(core.Asset{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *assetStore) Save(ctx context.Context, tx *db.DB, asset *core.Asset) error {
	return tx.Update().Create(asset).Error
}

func (s *assetStore) Find(ctx context.Context, assetID string) (*core.Asset, error) {
	var asset core.Asset
	if err := s.db.View().Where("asset_id=?", assetID).First(&asset).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return &asset, nil
}

func (s *assetStore) All(ctx context.Context) ([]*core.Asset, error) {
	var assets []*core.Asset
	if err := s.db.View().Find(&assets).Error; err != nil {
		return nil, err
	}

	return assets, nil
}

func (s *assetStore) AllAsMap(ctx context.Context) (map[string]*core.Asset, error) {
	assets, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	maps := make(map[string]*core.Asset, len(assets))
	for _, a := range assets {
		maps[a.AssetID] = a
	}

	return maps, nil
}

func (s *assetStore) Update(ctx context.Context, tx *db.DB, asset *core.Asset) error {
	version := asset.Version
	asset.Version++
	return tx.Update().Model(core.Asset{}).
		Where("asset_id=? and version=?", asset.AssetID, version).
		Update(asset).Error
}
