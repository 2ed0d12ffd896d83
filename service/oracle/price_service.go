package oracle

import (
	"context"
	"fmt"
	"time"

	"lendefi/core"
	"lendefi/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// PriceService reads persisted feed prices with a small in process cache
// and rejects zero or stale quotes
type PriceService struct {
	config     *core.Config
	priceStore core.IPriceStore
	cache      gcache.Cache
}

// New new oracle price service
func New(config *core.Config, priceStore core.IPriceStore) core.IPriceOracleService {
	return &PriceService{
		config:     config,
		priceStore: priceStore,
		cache:      gcache.New(256).LRU().Expiration(time.Minute).Build(),
	}
}

// GetPrice current USD price of an asset. Fails with ErrInvalidPrice on a
// non positive quote and ErrStalePrice past the staleness bound.
func (s *PriceService) GetPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	price, err := s.latest(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	if price == nil || price.Price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, core.ErrInvalidPrice
	}

	staleAfter := s.config.PriceOracle.StaleAfter
	if staleAfter <= 0 {
		staleAfter = time.Hour
	}

	if time.Since(price.PriceTime) > staleAfter {
		return decimal.Zero, core.ErrStalePrice
	}

	return price.Price, nil
}

func (s *PriceService) latest(ctx context.Context, assetID string) (*core.Price, error) {
	if v, err := s.cache.Get(assetID); err == nil {
		if price, ok := v.(*core.Price); ok {
			return price, nil
		}
	}

	price, err := s.priceStore.Latest(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if price != nil {
		_ = s.cache.Set(assetID, price)
	}

	return price, nil
}

// PullPriceTicker pull one ticker from the price feed
func (s *PriceService) PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/v2/tickers/%s?ts=%d", s.config.PriceOracle.EndPoint, assetID, t.UTC().Unix())
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	return &ticker, nil
}

// PullAllPriceTickers pull all tickers from the price feed
func (s *PriceService) PullAllPriceTickers(ctx context.Context, t time.Time) ([]*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/tickers?ts=%d", s.config.PriceOracle.EndPoint, t.UTC().Unix())

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var tickers []*core.PriceTicker
	if err := resthttp.ParseResponse(resp, &tickers); err != nil {
		return nil, err
	}

	return tickers, nil
}
