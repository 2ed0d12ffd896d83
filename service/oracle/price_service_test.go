package oracle

import (
	"context"
	"testing"
	"time"

	"lendefi/core"

	"github.com/bmizerany/assert"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakePriceStore struct {
	prices map[string]*core.Price
}

func newFakePriceStore() *fakePriceStore {
	return &fakePriceStore{prices: make(map[string]*core.Price)}
}

func (s *fakePriceStore) Save(ctx context.Context, tx *db.DB, price *core.Price) error {
	s.prices[price.AssetID] = price
	return nil
}

func (s *fakePriceStore) Latest(ctx context.Context, assetID string) (*core.Price, error) {
	return s.prices[assetID], nil
}

func (s *fakePriceStore) All(ctx context.Context) ([]*core.Price, error) {
	prices := make([]*core.Price, 0, len(s.prices))
	for _, p := range s.prices {
		prices = append(prices, p)
	}

	return prices, nil
}

func (s *fakePriceStore) quote(assetID string, price decimal.Decimal, at time.Time) {
	s.prices[assetID] = &core.Price{AssetID: assetID, Price: price, PriceTime: at}
}

func newTestService(store core.IPriceStore, staleAfter time.Duration) core.IPriceOracleService {
	cfg := &core.Config{
		PriceOracle: core.PriceOracle{StaleAfter: staleAfter},
	}

	return New(cfg, store)
}

func TestGetPrice(t *testing.T) {
	ctx := context.Background()
	store := newFakePriceStore()
	store.quote("eth", decimal.NewFromInt(1000), time.Now())

	service := newTestService(store, time.Minute)

	price, err := service.GetPrice(ctx, "eth")
	require.Nil(t, err)
	assert.Equal(t, "1000", price.String())
}

func TestGetPriceInvalid(t *testing.T) {
	ctx := context.Background()
	store := newFakePriceStore()
	store.quote("zero", decimal.Zero, time.Now())
	store.quote("negative", decimal.NewFromInt(-5), time.Now())

	service := newTestService(store, time.Minute)

	for _, assetID := range []string{"zero", "negative", "unquoted"} {
		t.Run(assetID, func(t *testing.T) {
			price, err := service.GetPrice(ctx, assetID)
			assert.Equal(t, core.ErrInvalidPrice, err)
			assert.Equal(t, "0", price.String())
		})
	}
}

func TestGetPriceStale(t *testing.T) {
	ctx := context.Background()
	store := newFakePriceStore()
	store.quote("fresh", decimal.NewFromInt(1000), time.Now().Add(-30*time.Second))
	store.quote("stale", decimal.NewFromInt(1000), time.Now().Add(-2*time.Minute))

	service := newTestService(store, time.Minute)

	price, err := service.GetPrice(ctx, "fresh")
	require.Nil(t, err)
	assert.Equal(t, "1000", price.String())

	price, err = service.GetPrice(ctx, "stale")
	assert.Equal(t, core.ErrStalePrice, err)
	assert.Equal(t, "0", price.String())
}

// an unset staleness bound falls back to one hour
func TestGetPriceDefaultStaleness(t *testing.T) {
	ctx := context.Background()
	store := newFakePriceStore()
	store.quote("recent", decimal.NewFromInt(1000), time.Now().Add(-30*time.Minute))
	store.quote("old", decimal.NewFromInt(1000), time.Now().Add(-2*time.Hour))

	service := newTestService(store, 0)

	price, err := service.GetPrice(ctx, "recent")
	require.Nil(t, err)
	assert.Equal(t, "1000", price.String())

	_, err = service.GetPrice(ctx, "old")
	assert.Equal(t, core.ErrStalePrice, err)
}
