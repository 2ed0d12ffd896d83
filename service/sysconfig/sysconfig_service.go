package sysconfig

import (
	"context"
	"encoding/json"

	"lendefi/core"

	"github.com/fox-one/pkg/property"
)

const (
	configKey = "lendefi_protocol_config"
	pausedKey = "lendefi_paused"
)

type sysConfigService struct {
	system        *core.System
	propertyStore property.Store
}

// New new sys config service
func New(system *core.System, propertyStore property.Store) core.ISysConfigService {
	return &sysConfigService{
		system:        system,
		propertyStore: propertyStore,
	}
}

// Load validates and atomically replaces the protocol config
func (s *sysConfigService) Load(ctx context.Context, operator string, cfg core.ProtocolConfig) error {
	if !s.system.IsManager(operator) {
		return core.ErrUnauthorized
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	bs, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	return s.propertyStore.Save(ctx, configKey, string(bs))
}

func (s *sysConfigService) Get(ctx context.Context) (core.ProtocolConfig, error) {
	v, err := s.propertyStore.Get(ctx, configKey)
	if err != nil {
		return core.ProtocolConfig{}, err
	}

	raw := v.String()
	if raw == "" {
		return core.DefaultProtocolConfig(), nil
	}

	var cfg core.ProtocolConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return core.ProtocolConfig{}, err
	}

	return cfg, nil
}

func (s *sysConfigService) Pause(ctx context.Context, operator string) error {
	if !s.system.IsPauser(operator) {
		return core.ErrUnauthorized
	}

	return s.propertyStore.Save(ctx, pausedKey, 1)
}

func (s *sysConfigService) Resume(ctx context.Context, operator string) error {
	if !s.system.IsPauser(operator) {
		return core.ErrUnauthorized
	}

	return s.propertyStore.Save(ctx, pausedKey, 0)
}

func (s *sysConfigService) Paused(ctx context.Context) (bool, error) {
	v, err := s.propertyStore.Get(ctx, pausedKey)
	if err != nil {
		return false, err
	}

	return v.Int64() != 0, nil
}
