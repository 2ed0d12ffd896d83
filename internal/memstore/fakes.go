package memstore

import (
	"context"
	"sync"
	"time"

	"lendefi/core"

	"github.com/shopspring/decimal"
)

// SysConfig fake protocol config service
type SysConfig struct {
	mu     sync.Mutex
	cfg    core.ProtocolConfig
	paused bool
	system *core.System
}

// NewSysConfig fake sysconfig with the default protocol parameters
func NewSysConfig(system *core.System) *SysConfig {
	return &SysConfig{cfg: core.DefaultProtocolConfig(), system: system}
}

func (s *SysConfig) Load(ctx context.Context, operator string, cfg core.ProtocolConfig) error {
	if !s.system.IsManager(operator) {
		return core.ErrUnauthorized
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

func (s *SysConfig) Get(ctx context.Context) (core.ProtocolConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg, nil
}

func (s *SysConfig) Pause(ctx context.Context, operator string) error {
	if !s.system.IsPauser(operator) {
		return core.ErrUnauthorized
	}

	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	return nil
}

func (s *SysConfig) Resume(ctx context.Context, operator string) error {
	if !s.system.IsPauser(operator) {
		return core.ErrUnauthorized
	}

	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	return nil
}

func (s *SysConfig) Paused(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.paused, nil
}

// Oracle fake price oracle returning fixed prices
type Oracle struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
}

// NewOracle new fake oracle
func NewOracle() *Oracle {
	return &Oracle{prices: make(map[string]decimal.Decimal)}
}

// SetPrice set the quoted price of an asset
func (o *Oracle) SetPrice(assetID string, price decimal.Decimal) {
	o.mu.Lock()
	o.prices[assetID] = price
	o.mu.Unlock()
}

func (o *Oracle) GetPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	price, ok := o.prices[assetID]
	if !ok || !price.IsPositive() {
		return decimal.Zero, core.ErrInvalidPrice
	}

	return price, nil
}

func (o *Oracle) PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*core.PriceTicker, error) {
	price, err := o.GetPrice(ctx, assetID)
	if err != nil {
		return nil, err
	}

	return &core.PriceTicker{AssetID: assetID, Price: price, UpdatedAt: t}, nil
}

func (o *Oracle) PullAllPriceTickers(ctx context.Context, t time.Time) ([]*core.PriceTicker, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	tickers := make([]*core.PriceTicker, 0, len(o.prices))
	for assetID, price := range o.prices {
		tickers = append(tickers, &core.PriceTicker{AssetID: assetID, Price: price, UpdatedAt: t})
	}

	return tickers, nil
}
