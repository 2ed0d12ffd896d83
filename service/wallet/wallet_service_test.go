package wallet

import (
	"context"
	"testing"

	"lendefi/core"
	"lendefi/internal/memstore"

	"github.com/bmizerany/assert"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewWalletStore()
	service := New(store)

	store.Deposit("alice", "btc", decimal.NewFromInt(10))

	err := service.Transfer(ctx, nil, "alice", "bob", "btc", decimal.Zero)
	assert.Equal(t, core.ErrZeroAmount, err)

	err = service.Transfer(ctx, nil, "alice", "bob", "btc", decimal.NewFromInt(11))
	assert.Equal(t, core.ErrInsufficientBalance, err)

	require.Nil(t, service.Transfer(ctx, nil, "alice", "bob", "btc", decimal.NewFromInt(4)))

	from, err := service.Balance(ctx, "alice", "btc")
	require.Nil(t, err)
	assert.Equal(t, "6", from.String())

	to, err := service.Balance(ctx, "bob", "btc")
	require.Nil(t, err)
	assert.Equal(t, "4", to.String())
}
