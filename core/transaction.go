package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// ledger journal actions
const (
	ActionOpenPosition       = "open_position"
	ActionSupplyCollateral   = "supply_collateral"
	ActionWithdrawCollateral = "withdraw_collateral"
	ActionBorrow             = "borrow"
	ActionRepay              = "repay"
	ActionLiquidate          = "liquidate"
	ActionSupplyLiquidity    = "supply_liquidity"
	ActionRedeemLiquidity    = "redeem_liquidity"
	ActionFlashLoan          = "flash_loan"
)

// Transaction journal row of a committed ledger operation
type Transaction struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID    string          `sql:"size:36;unique_index:trace_idx" json:"trace_id"`
	Action     string          `sql:"size:32;index:action_idx" json:"action"`
	UserID     string          `sql:"size:36;index:user_idx" json:"user_id"`
	PositionID int64           `sql:"default:0" json:"position_id"`
	AssetID    string          `sql:"size:36" json:"asset_id,omitempty"`
	Amount     decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Context    types.JSONText  `sql:"type:varchar(1024)" json:"context,omitempty"`
	CreatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// SetContext marshal extra fields into the context payload
func (t *Transaction) SetContext(v interface{}) {
	bs, err := json.Marshal(v)
	if err != nil {
		return
	}

	t.Context = types.JSONText(bs)
}

// ITransactionStore journal store interface
type ITransactionStore interface {
	Create(ctx context.Context, tx *db.DB, transaction *Transaction) error
	List(ctx context.Context, from uint64, limit int) ([]*Transaction, error)
	FindByUser(ctx context.Context, userID string, limit int) ([]*Transaction, error)
}
