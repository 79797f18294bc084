package core

import (
	"context"
)

// IGateService runtime switches and role checks backed by the
// property store
type IGateService interface {
	Paused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool) error
	IsOwner(ctx context.Context, userID string) (bool, error)
	IsRunner(ctx context.Context, userID string) (bool, error)
	AddRunner(ctx context.Context, userID string) error
	RemoveRunner(ctx context.Context, userID string) error
}
