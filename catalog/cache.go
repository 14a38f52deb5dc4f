package catalog

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/manakirana/pos_backend/config"
	"github.com/manakirana/pos_backend/models"
	"github.com/manakirana/pos_backend/store"
	"github.com/manakirana/pos_backend/utils"
)

const moduleName = "catalog"

// Cache is the local product catalog, persisted as one JSON blob under
// store.KeyProducts. Billing reads it offline; the publisher patches its
// stock counts after every published sale.
type Cache struct {
	mu     sync.Mutex
	kv     store.KV
	logger *logrus.Logger
}

func NewCache(kv store.KV, logger *logrus.Logger) *Cache {
	return &Cache{kv: kv, logger: logger}
}

func (c *Cache) load() ([]models.Product, error) {
	raw, found, err := c.kv.Load(store.KeyProducts)
	if err != nil {
		config.LogError(c.logger, moduleName, "load", "loading product cache", nil, err)
		return nil, err
	}
	if !found || raw == "" {
		return []models.Product{}, nil
	}
	products, err := utils.UnmarshalFromJSON[[]models.Product](raw)
	if err != nil {
		config.LogError(c.logger, moduleName, "load", "decoding product cache", nil, err)
		return nil, err
	}
	return products, nil
}

func (c *Cache) save(products []models.Product) error {
	raw, err := utils.MarshalToJSON(products)
	if err != nil {
		config.LogError(c.logger, moduleName, "save", "encoding product cache", nil, err)
		return err
	}
	if err := c.kv.Save(store.KeyProducts, raw); err != nil {
		config.LogError(c.logger, moduleName, "save", "persisting product cache", nil, err)
		return err
	}
	return nil
}

// GetAll returns the cached catalog, empty when never populated.
func (c *Cache) GetAll() ([]models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// ReplaceAll overwrites the whole cached catalog.
func (c *Cache) ReplaceAll(products []models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if products == nil {
		products = []models.Product{}
	}
	return c.save(products)
}

// ApplyStockDelta sets the cached countInStock of one financial variant.
// A missing leaf is logged and skipped: the cache may predate catalog
// changes on the server.
func (c *Cache) ApplyStockDelta(productID, brandID, financialID string, newCountInStock int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	products, err := c.load()
	if err != nil {
		return err
	}
	financial := models.FindFinancial(products, productID, brandID, financialID)
	if financial == nil {
		c.logger.WithFields(logrus.Fields{
			"module":      moduleName,
			"productId":   productID,
			"brandId":     brandID,
			"financialId": financialID,
		}).Warn("stock delta skipped, variant not in cache")
		return nil
	}
	financial.CountInStock = newCountInStock
	return c.save(products)
}

// Clear drops the cached catalog entirely.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Delete(store.KeyProducts); err != nil {
		config.LogError(c.logger, moduleName, "Clear", "deleting product cache", nil, err)
		return err
	}
	return nil
}
