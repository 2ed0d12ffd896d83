package position

import (
	"context"

	"lendefi/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

func (s *positionStore) FindCollateral(ctx context.Context, userID string, positionID int64, assetID string) (*core.Collateral, error) {
	var collateral core.Collateral
	err := s.db.View().
		Where("user_id=? and position_id=? and asset_id=?", userID, positionID, assetID).
		First(&collateral).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return &collateral, nil
}

func (s *positionStore) ListCollaterals(ctx context.Context, userID string, positionID int64) ([]*core.Collateral, error) {
	var collaterals []*core.Collateral
	err := s.db.View().
		Where("user_id=? and position_id=?", userID, positionID).
		Order("asset_id").
		Find(&collaterals).Error
	if err != nil {
		return nil, err
	}

	return collaterals, nil
}

func (s *positionStore) SaveCollateral(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	return tx.Update().Create(collateral).Error
}

func (s *positionStore) UpdateCollateral(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	version := collateral.Version
	collateral.Version++
	return tx.Update().Model(core.Collateral{}).
		Where("user_id=? and position_id=? and asset_id=? and version=?",
			collateral.UserID, collateral.PositionID, collateral.AssetID, version).
		Update(collateral).Error
}
