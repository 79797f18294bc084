package block

import (
	"context"
	"time"

	"lever/core"
	"lever/internal/lever"
)

type service struct {
	config *core.Config
}

// New new block service
func New(config *core.Config) core.IBlockService {
	return &service{
		config: config,
	}
}

// CurrentBlock current block
func (s *service) CurrentBlock(ctx context.Context) (int64, error) {
	current, e := lever.CurrentBlock(ctx, lever.SecondsPerBlock, s.config.App.Genesis, time.Now())
	if e != nil {
		return 0, e
	}
	return current, nil
}
