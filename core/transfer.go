package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const (
	// TransferDirectionIn tokens entering the protocol
	TransferDirectionIn = "in"
	// TransferDirectionOut tokens leaving the protocol
	TransferDirectionOut = "out"
)

// Transfer token movement queued by the ledger. Outbound rows are
// settled by the cashier worker; TraceID is deterministic so replays
// never pay twice.
type Transfer struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string          `sql:"size:36;unique_index:transfer_trace_idx" json:"trace_id"`
	Direction string          `sql:"size:8;default:'out'" json:"direction"`
	Opponent  string          `sql:"size:36;index:transfer_opponent_idx" json:"opponent"`
	AssetID   string          `sql:"size:36" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Memo      types.JSONText  `sql:"type:varchar(512)" json:"memo"`
	Handled   bool            `sql:"default:false;index:transfer_handled_idx" json:"handled"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TransferAction memo payload attached to transfers. FollowID ties
// the transfer back to the ledger operation that queued it and seeds
// its trace id.
type TransferAction struct {
	FollowID string `json:"follow_id,omitempty"`
	Source   string `json:"source,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Position int64  `json:"position,omitempty"`
}

// ITransferStore transfer queue store
type ITransferStore interface {
	Create(ctx context.Context, tx *db.DB, transfer *Transfer) error
	Top(ctx context.Context, limit int) ([]*Transfer, error)
	Update(ctx context.Context, transfer *Transfer) error
}

// ITransferService records token movements and settles the outbound
// ones. TransferIn only books the movement; custody of inbound tokens
// is the caller's collaborator.
type ITransferService interface {
	TransferIn(ctx context.Context, tx *db.DB, opponent, assetID string, amount decimal.Decimal, action *TransferAction) error
	TransferOut(ctx context.Context, tx *db.DB, opponent, assetID string, amount decimal.Decimal, action *TransferAction) error
	Settle(ctx context.Context, transfer *Transfer) error
}
