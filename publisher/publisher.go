package publisher

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	"github.com/manakirana/pos_backend/catalog"
	"github.com/manakirana/pos_backend/config"
	"github.com/manakirana/pos_backend/models"
	"github.com/manakirana/pos_backend/queue"
	"github.com/manakirana/pos_backend/remote"
)

const moduleName = "publisher"

const publishLockKey = "pos:publish:lock"

// ErrOffline is returned when the central API is unreachable at the start
// of a pass. Nothing is attempted and the queue is untouched.
var ErrOffline = errors.New("central api unreachable, orders stay queued")

// ErrPublishInProgress is returned when another pass holds the publish
// lock.
var ErrPublishInProgress = errors.New("a publish pass is already running")

// RemoteAPI is the slice of the central API the publisher drives.
type RemoteAPI interface {
	Ping(ctx context.Context) bool
	FindCustomerByPhone(ctx context.Context, token, phone string) (models.Customer, error)
	CreateCustomer(ctx context.Context, token string, newCustomer models.NewCustomer) (models.Customer, error)
	CreateOrder(ctx context.Context, token, localID string, payload models.OrderPayload) (remote.CreatedOrder, error)
	AdjustStock(ctx context.Context, token, productID string, adj remote.StockAdjustment) error
}

type OrderResult struct {
	LocalID string `json:"localId"`
	OK      bool   `json:"ok"`
	OrderID string `json:"orderId,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Result struct {
	PublishedCount  int           `json:"publishedCount"`
	FailedCount     int           `json:"failedCount"`
	PerOrderResults []OrderResult `json:"perOrderResults"`
}

// Publisher drains the order queue into the central API, one order at a
// time. Order failures never abort a pass; each order succeeds or stays
// queued on its own.
type Publisher struct {
	queue  *queue.Queue
	cache  *catalog.Cache
	api    RemoteAPI
	locker *redislock.Client
	logger *logrus.Logger
}

// NewPublisher wires a publisher. locker may be nil; passes are then only
// serialized by the callers.
func NewPublisher(q *queue.Queue, cache *catalog.Cache, api RemoteAPI, locker *redislock.Client, logger *logrus.Logger) *Publisher {
	return &Publisher{queue: q, cache: cache, api: api, locker: locker, logger: logger}
}

// Publish runs one sequential pass over the queued orders. sessionToken is
// the fallback credential for orders that did not capture their own token.
func (p *Publisher) Publish(ctx context.Context, sessionToken string) (Result, error) {
	if p.locker != nil {
		lock, err := p.locker.Obtain(ctx, publishLockKey, 2*time.Minute, nil)
		if err == redislock.ErrNotObtained {
			return Result{}, ErrPublishInProgress
		}
		if err != nil {
			config.LogError(p.logger, moduleName, "Publish", "obtaining publish lock", nil, err)
			return Result{}, err
		}
		defer lock.Release(ctx)
	}

	if !p.api.Ping(ctx) {
		p.logger.WithField("module", moduleName).Info("publish skipped, central api unreachable")
		return Result{}, ErrOffline
	}

	snapshot, err := p.queue.Peek()
	if err != nil {
		return Result{}, err
	}
	if len(snapshot) == 0 {
		return Result{PerOrderResults: []OrderResult{}}, nil
	}

	result := Result{PerOrderResults: make([]OrderResult, 0, len(snapshot))}
	published := make([]string, 0, len(snapshot))

	for _, order := range snapshot {
		orderResult := p.publishOne(ctx, order, sessionToken)
		result.PerOrderResults = append(result.PerOrderResults, orderResult)
		if orderResult.OK {
			result.PublishedCount++
			published = append(published, order.LocalID)
		} else {
			result.FailedCount++
		}
	}

	// Only the orders this pass confirmed leave the queue. Failures and
	// anything enqueued while the pass ran survive the removal.
	if err := p.queue.RemovePublished(published); err != nil {
		return result, err
	}

	p.logger.WithFields(logrus.Fields{
		"module":    moduleName,
		"published": result.PublishedCount,
		"failed":    result.FailedCount,
	}).Info("publish pass finished")
	return result, nil
}

func (p *Publisher) publishOne(ctx context.Context, order models.QueuedOrder, sessionToken string) OrderResult {
	token := order.AuthToken
	if token == "" {
		token = sessionToken
	}

	payload := order.Payload
	if order.CustomerPhone != "" {
		customerID, err := p.resolveCustomer(ctx, token, order.CustomerPhone, order.CustomerName)
		if err != nil {
			config.LogError(p.logger, moduleName, "publishOne", "resolving customer", order.CustomerPhone, err)
			return OrderResult{LocalID: order.LocalID, Error: "customer resolution failed"}
		}
		payload.CustomerRef = customerID
	}

	created, err := p.api.CreateOrder(ctx, token, order.LocalID, payload)
	if err != nil {
		config.LogError(p.logger, moduleName, "publishOne", "submitting order", order.LocalID, err)
		return OrderResult{LocalID: order.LocalID, Error: err.Error()}
	}

	// The order is committed remotely from here on. Stock bookkeeping is
	// best effort and never demotes the order back to failed.
	p.applyStockDeltas(ctx, token, order)

	return OrderResult{LocalID: order.LocalID, OK: true, OrderID: created.ID}
}

// resolveCustomer finds the customer by phone, creating a walk-in record
// with sentinel fields when the lookup comes back empty or broken.
func (p *Publisher) resolveCustomer(ctx context.Context, token, phone, name string) (string, error) {
	customer, err := p.api.FindCustomerByPhone(ctx, token, phone)
	if err == nil {
		return customer.ID, nil
	}
	created, err := p.api.CreateCustomer(ctx, token, models.WalkInCustomer(name, phone))
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (p *Publisher) applyStockDeltas(ctx context.Context, token string, order models.QueuedOrder) {
	for _, item := range order.CartItemsSnapshot {
		err := p.api.AdjustStock(ctx, token, item.ProductID, remote.StockAdjustment{
			BrandID:     item.BrandID,
			FinancialID: item.FinancialID,
			NewQuantity: item.Stock,
		})
		if err != nil {
			config.LogError(p.logger, moduleName, "applyStockDeltas", "remote stock adjust", item.FinancialID, err)
		}
		// The local cache follows the snapshot either way so the till
		// shows the post-sale count immediately.
		if err := p.cache.ApplyStockDelta(item.ProductID, item.BrandID, item.FinancialID, item.Stock); err != nil {
			config.LogError(p.logger, moduleName, "applyStockDeltas", "local stock adjust", item.FinancialID, err)
		}
	}
}
