package config

import (
	"time"

	"lendefi/core"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("LENDEFI")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaults(config)

	if _, err := govalidator.ValidateStruct(config); err != nil {
		return err
	}

	return nil
}

func defaults(config *core.Config) {
	if config.PriceOracle.StaleAfter <= 0 {
		config.PriceOracle.StaleAfter = time.Hour
	}

	if config.PriceOracle.PullInterval <= 0 {
		config.PriceOracle.PullInterval = time.Minute
	}
}
