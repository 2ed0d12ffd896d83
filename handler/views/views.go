package views

import (
	"lendefi/core"

	"github.com/shopspring/decimal"
)

// Asset asset view with its latest price
type Asset struct {
	core.Asset
	Price decimal.Decimal `json:"price"`
}

// Pool pool view with derived rates
type Pool struct {
	core.Pool
	Utilization decimal.Decimal `json:"utilization"`
	BorrowRate  decimal.Decimal `json:"borrow_rate"`
}

// Position position view with derived risk figures
type Position struct {
	core.Position
	Collaterals  []*core.Collateral `json:"collaterals"`
	Tier         string             `json:"tier"`
	CreditLimit  decimal.Decimal    `json:"credit_limit"`
	Debt         decimal.Decimal    `json:"debt"`
	HealthFactor decimal.Decimal    `json:"health_factor"`
}
