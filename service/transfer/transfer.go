package transfer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"

	"lever/core"
	"lever/pkg/id"
	"lever/pkg/resthttp"
)

type service struct {
	config    *core.Config
	transfers core.ITransferStore
}

// New new transfer service
func New(config *core.Config, transfers core.ITransferStore) core.ITransferService {
	return &service{
		config:    config,
		transfers: transfers,
	}
}

func (s *service) TransferIn(ctx context.Context, tx *db.DB, opponent, assetID string, amount decimal.Decimal, action *core.TransferAction) error {
	// inbound movements are booked only; custody already changed hands
	return s.create(ctx, tx, core.TransferDirectionIn, opponent, assetID, amount, action, true)
}

func (s *service) TransferOut(ctx context.Context, tx *db.DB, opponent, assetID string, amount decimal.Decimal, action *core.TransferAction) error {
	return s.create(ctx, tx, core.TransferDirectionOut, opponent, assetID, amount, action, false)
}

// Settle delivers an outbound transfer to the settlement endpoint and
// marks it handled
func (s *service) Settle(ctx context.Context, transfer *core.Transfer) error {
	url := fmt.Sprintf("%s/api/transfers", s.config.Feed.SettlementEndPoint)
	resp, err := resthttp.Request(ctx).SetBody(transfer).Post(url)
	if err != nil {
		return err
	}

	if err := resthttp.ParseResponse(resp, nil); err != nil {
		return err
	}

	transfer.Handled = true
	return s.transfers.Update(ctx, transfer)
}

func (s *service) create(ctx context.Context, tx *db.DB, direction, opponent, assetID string, amount decimal.Decimal, action *core.TransferAction, handled bool) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	if action == nil || action.FollowID == "" {
		return core.ErrOperationForbidden
	}

	memo, err := json.Marshal(action)
	if err != nil {
		return err
	}

	return s.transfers.Create(ctx, tx, &core.Transfer{
		TraceID:   id.UUIDByName(action.FollowID, "lever-transfer-"+direction),
		Direction: direction,
		Opponent:  opponent,
		AssetID:   assetID,
		Amount:    amount,
		Memo:      memo,
		Handled:   handled,
	})
}
