package asset

import (
	"context"
	"errors"

	"github.com/fox-one/pkg/store/db"

	"lever/core"
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

func (s *assetStore) Save(ctx context.Context, asset *core.Asset) error {
	if asset.ID == "" {
		return errors.New("invalid asset id")
	}

	if err := s.db.Update().Where("id=?", asset.ID).FirstOrCreate(asset).Error; err != nil {
		return err
	}

	return nil
}

func (s *assetStore) Find(ctx context.Context, id string) (*core.Asset, error) {
	if id == "" {
		return nil, errors.New("invalid asset id")
	}

	var asset core.Asset
	if err := s.db.View().Where("id=?", id).First(&asset).Error; err != nil {
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
