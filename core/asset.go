package core

import (
	"context"
	"time"
)

// Asset asset info
type Asset struct {
	ID        string    `sql:"size:36;PRIMARY_KEY" json:"id"`
	Symbol    string    `sql:"size:20" json:"symbol"`
	Name      string    `sql:"size:64" json:"name"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IAssetStore asset store interface
type IAssetStore interface {
	Save(ctx context.Context, asset *Asset) error
	Find(ctx context.Context, id string) (*Asset, error)
	All(ctx context.Context) ([]*Asset, error)
}
