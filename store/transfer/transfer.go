package transfer

import (
	"context"
	"errors"

	"github.com/fox-one/pkg/store/db"

	"lever/core"
)

type transferStore struct {
	db *db.DB
}

// New new transfer store
func New(db *db.DB) core.ITransferStore {
	return &transferStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	if e := tx.Update().Where("trace_id=?", transfer.TraceID).FirstOrCreate(transfer).Error; e != nil {
		return e
	}

	return nil
}

func (s *transferStore) Top(ctx context.Context, limit int) ([]*core.Transfer, error) {
	if limit <= 0 {
		return nil, errors.New("invalid limit")
	}

	var transfers []*core.Transfer
	if e := s.db.View().Where("handled=?", false).Limit(limit).Offset(0).Order("created_at ASC").Find(&transfers).Error; e != nil {
		return nil, e
	}

	return transfers, nil
}

func (s *transferStore) Update(ctx context.Context, transfer *core.Transfer) error {
	version := transfer.Version
	transfer.Version++
	if e := s.db.Update().Model(core.Transfer{}).Where("trace_id=? and version=?", transfer.TraceID, version).Update(transfer).Error; e != nil {
		return e
	}

	return nil
}
