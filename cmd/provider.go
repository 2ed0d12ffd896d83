package cmd

import (
	"lendefi/core"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

func provideSystem() *core.System {
	return &core.System{
		Managers: cfg.Managers,
		Pausers:  cfg.Pausers,
	}
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}
