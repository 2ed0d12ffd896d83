package position

import (
	"context"

	"lendefi/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Position{}).AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.Collateral{}).AutoMigrate(core.Collateral{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Create(ctx context.Context, tx *db.DB, position *core.Position) error {
	return tx.Update().Create(position).Error
}

func (s *positionStore) Find(ctx context.Context, userID string, positionID int64) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("user_id=? and position_id=?", userID, positionID).First(&position).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}

		return nil, err
	}

	return &position, nil
}

func (s *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("user_id=?", userID).Order("position_id").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.Position{}).Where("user_id=?", userID).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *positionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	version := position.Version
	position.Version++
	return tx.Update().Model(core.Position{}).
		Where("user_id=? and position_id=? and version=?", position.UserID, position.PositionID, version).
		Update(position).Error
}
