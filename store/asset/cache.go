package asset

import (
	"context"
	"time"

	"lendefi/core"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/singleflight"
)

// Cache read through cache over an asset store. Writes invalidate the
// cached row so readers never observe a listed asset's stale config for
// longer than exp.
func Cache(store core.IAssetStore, exp time.Duration) core.IAssetStore {
	return &cacheAssetStore{
		IAssetStore: store,
		cache:       gcache.New(512).LRU().Expiration(exp).Build(),
		sf:          &singleflight.Group{},
	}
}

type cacheAssetStore struct {
	core.IAssetStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheAssetStore) Find(ctx context.Context, assetID string) (*core.Asset, error) {
	if v, err := s.cache.Get(assetID); err == nil {
		if asset, ok := v.(*core.Asset); ok {
			return asset, nil
		}
	}

	v, err, _ := s.sf.Do(assetID, func() (interface{}, error) {
		asset, err := s.IAssetStore.Find(ctx, assetID)
		if err != nil {
			return nil, err
		}

		if asset != nil {
			_ = s.cache.Set(assetID, asset)
		}

		return asset, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*core.Asset), nil
}

func (s *cacheAssetStore) Save(ctx context.Context, tx *db.DB, asset *core.Asset) error {
	if err := s.IAssetStore.Save(ctx, tx, asset); err != nil {
		return err
	}

	s.cache.Remove(asset.AssetID)
	return nil
}

func (s *cacheAssetStore) Update(ctx context.Context, tx *db.DB, asset *core.Asset) error {
	if err := s.IAssetStore.Update(ctx, tx, asset); err != nil {
		return err
	}

	s.cache.Remove(asset.AssetID)
	return nil
}
