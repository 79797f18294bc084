package position

import (
	"context"
	"errors"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"

	"lever/core"
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
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Create(ctx context.Context, tx *db.DB, position *core.Position) error {
	if err := tx.Update().Create(position).Error; err != nil {
		return err
	}
	return nil
}

func (s *positionStore) Find(ctx context.Context, owner string, positionID int64) (*core.Position, error) {
	if owner == "" {
		return nil, errors.New("invalid owner")
	}

	var position core.Position
	if err := s.db.View().Where("owner=? and position_id=?", owner, positionID).First(&position).Error; err != nil {
		return nil, err
	}

	return &position, nil
}

func (s *positionStore) FindByOwner(ctx context.Context, owner string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("owner=?", owner).Order("position_id").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) FindByCollateral(ctx context.Context, assetID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("collateral_asset_id=?", assetID).Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) NextPositionID(ctx context.Context, owner string) (int64, error) {
	var position core.Position
	err := s.db.View().Where("owner=?", owner).Order("position_id desc").First(&position).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return 0, nil
		}
		return 0, err
	}

	return position.PositionID + 1, nil
}

func (s *positionStore) Update(ctx context.Context, tx *db.DB, position *core.Position) error {
	version := position.Version
	position.Version++
	if err := tx.Update().Model(core.Position{}).Where("owner=? and position_id=? and version=?", position.Owner, position.PositionID, version).Update(position).Error; err != nil {
		return err
	}

	return nil
}
