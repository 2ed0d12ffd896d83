package wallet

import (
	"context"

	"lendefi/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type walletService struct {
	walletStore core.IWalletStore
}

// New new wallet service
func New(walletStore core.IWalletStore) core.IWalletService {
	return &walletService{walletStore: walletStore}
}

func (s *walletService) Transfer(ctx context.Context, tx *db.DB, from, to, assetID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrZeroAmount
	}

	if err := s.walletStore.Add(ctx, tx, from, assetID, amount.Neg()); err != nil {
		return err
	}

	return s.walletStore.Add(ctx, tx, to, assetID, amount)
}

func (s *walletService) Balance(ctx context.Context, account, assetID string) (decimal.Decimal, error) {
	balance, err := s.walletStore.Find(ctx, account, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	if balance == nil {
		return decimal.Zero, nil
	}

	return balance.Amount, nil
}
