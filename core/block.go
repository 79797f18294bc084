package core

import (
	"context"
)

// IBlockService logical block clock
type IBlockService interface {
	// CurrentBlock block number derived from wall time
	CurrentBlock(ctx context.Context) (int64, error)
}
