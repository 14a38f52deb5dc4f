package catalog

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/manakirana/pos_backend/config"
	"github.com/manakirana/pos_backend/models"
)

// ErrOfflineNoCache is returned when the catalog has never been cached and
// the central API cannot be reached.
var ErrOfflineNoCache = errors.New("offline and product cache is empty")

// Fetcher pulls the full catalog from the central API.
type Fetcher interface {
	FetchAllProducts(ctx context.Context) ([]models.Product, error)
}

// Source reports where a hydration answer came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// Hydrator loads the catalog for the till, preferring the local cache so
// billing works without connectivity.
type Hydrator struct {
	cache   *Cache
	fetcher Fetcher
	logger  *logrus.Logger
}

func NewHydrator(cache *Cache, fetcher Fetcher, logger *logrus.Logger) *Hydrator {
	return &Hydrator{cache: cache, fetcher: fetcher, logger: logger}
}

// CacheFirst returns the cached catalog when one exists, regardless of
// connectivity. Only an empty cache triggers a network fetch, and a fetch
// failure then surfaces as ErrOfflineNoCache.
func (h *Hydrator) CacheFirst(ctx context.Context) ([]models.Product, Source, error) {
	cached, err := h.cache.GetAll()
	if err != nil {
		return nil, "", err
	}
	if len(cached) > 0 {
		return cached, SourceCache, nil
	}

	products, err := h.fetcher.FetchAllProducts(ctx)
	if err != nil {
		config.LogError(h.logger, moduleName, "CacheFirst", "catalog fetch with empty cache", nil, err)
		return nil, "", ErrOfflineNoCache
	}
	if err := h.cache.ReplaceAll(products); err != nil {
		return nil, "", err
	}
	return products, SourceRemote, nil
}

// ForceFresh drops the cache and refills it from the central API. Used
// right after login; fails when the API is unreachable.
func (h *Hydrator) ForceFresh(ctx context.Context) ([]models.Product, error) {
	if err := h.cache.Clear(); err != nil {
		return nil, err
	}
	products, err := h.fetcher.FetchAllProducts(ctx)
	if err != nil {
		config.LogError(h.logger, moduleName, "ForceFresh", "forced catalog fetch", nil, err)
		return nil, err
	}
	if err := h.cache.ReplaceAll(products); err != nil {
		return nil, err
	}
	return products, nil
}
