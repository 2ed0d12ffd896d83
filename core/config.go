package core

import (
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Config lendefi node config
type Config struct {
	App         App         `json:"app" valid:"required"`
	DB          db.Config   `json:"db"`
	PriceOracle PriceOracle `json:"price_oracle" valid:"required"`
	Managers    []string    `json:"managers"`
	Pausers     []string    `json:"pausers"`
}

// App app config
type App struct {
	// PoolAssetID the pool stablecoin asset
	PoolAssetID string `json:"pool_asset_id" valid:"uuid,required"`
	Location    string `json:"location"`
}

// PriceOracle price feed config
type PriceOracle struct {
	EndPoint string `json:"end_point" valid:"url,required"`
	// StaleAfter prices older than this bound are rejected
	StaleAfter time.Duration `json:"stale_after"`
	// PullInterval price poll worker interval
	PullInterval time.Duration `json:"pull_interval"`
}
