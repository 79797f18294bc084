package supply

import (
	"context"

	"github.com/fox-one/pkg/store/db"

	"lever/core"
)

type supplyStore struct {
	db *db.DB
}

// New new supply store
func New(db *db.DB) core.ISupplyStore {
	return &supplyStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Supply{})
		if err := tx.AutoMigrate(core.Supply{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *supplyStore) Save(ctx context.Context, tx *db.DB, supply *core.Supply) error {
	if e := tx.Update().Where("user_id=? and asset_id=?", supply.UserID, supply.AssetID).FirstOrCreate(supply).Error; e != nil {
		return e
	}

	return nil
}

func (s *supplyStore) Find(ctx context.Context, userID, assetID string) (*core.Supply, error) {
	var supply core.Supply
	if e := s.db.View().Where("user_id=? and asset_id=?", userID, assetID).First(&supply).Error; e != nil {
		return nil, e
	}

	return &supply, nil
}

func (s *supplyStore) FindByUser(ctx context.Context, userID string) ([]*core.Supply, error) {
	var supplies []*core.Supply
	if e := s.db.View().Where("user_id=?", userID).Find(&supplies).Error; e != nil {
		return nil, e
	}

	return supplies, nil
}

func (s *supplyStore) Update(ctx context.Context, tx *db.DB, supply *core.Supply) error {
	version := supply.Version
	supply.Version++
	if err := tx.Update().Model(core.Supply{}).Where("user_id=? and asset_id=? and version=?", supply.UserID, supply.AssetID, version).Update(supply).Error; err != nil {
		return err
	}

	return nil
}
