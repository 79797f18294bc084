package oracle

import (
	"context"
	"errors"

	"github.com/fox-one/pkg/store/db"

	"lever/core"
)

type oracleStore struct {
	db *db.DB
}

// New new oracle store
func New(db *db.DB) core.IOracleStore {
	return &oracleStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.OraclePrice{})
		if err := tx.AutoMigrate(core.OraclePrice{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *oracleStore) Save(ctx context.Context, tx *db.DB, price *core.OraclePrice) error {
	if price.AssetID == "" {
		return errors.New("invalid asset_id")
	}

	if err := tx.Update().Create(price).Error; err != nil {
		return err
	}

	return nil
}

func (s *oracleStore) Find(ctx context.Context, assetID string) (*core.OraclePrice, error) {
	if assetID == "" {
		return nil, errors.New("invalid asset_id")
	}

	var price core.OraclePrice
	if err := s.db.View().Where("asset_id=?", assetID).First(&price).Error; err != nil {
		return nil, err
	}

	return &price, nil
}

func (s *oracleStore) All(ctx context.Context) ([]*core.OraclePrice, error) {
	var prices []*core.OraclePrice
	if err := s.db.View().Find(&prices).Error; err != nil {
		return nil, err
	}

	return prices, nil
}

func (s *oracleStore) AllAveraged(ctx context.Context) ([]*core.OraclePrice, error) {
	var prices []*core.OraclePrice
	if err := s.db.View().Where("price > 0").Find(&prices).Error; err != nil {
		return nil, err
	}

	return prices, nil
}

func (s *oracleStore) Update(ctx context.Context, tx *db.DB, price *core.OraclePrice) error {
	version := price.Version
	price.Version++
	if err := tx.Update().Model(core.OraclePrice{}).Where("asset_id=? and version=?", price.AssetID, version).Update(price).Error; err != nil {
		return err
	}

	return nil
}
