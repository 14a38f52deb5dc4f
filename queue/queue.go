package queue

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/manakirana/pos_backend/config"
	"github.com/manakirana/pos_backend/models"
	"github.com/manakirana/pos_backend/store"
	"github.com/manakirana/pos_backend/utils"
)

const moduleName = "queue"

// Queue is the durable order queue. Orders are appended at the till and
// drained by the publisher; the whole queue is persisted as one JSON blob
// under store.KeyOrdersQueue so a restart never loses a sale.
type Queue struct {
	mu     sync.Mutex
	kv     store.KV
	logger *logrus.Logger
}

func NewQueue(kv store.KV, logger *logrus.Logger) *Queue {
	return &Queue{kv: kv, logger: logger}
}

func (q *Queue) load() ([]models.QueuedOrder, error) {
	raw, found, err := q.kv.Load(store.KeyOrdersQueue)
	if err != nil {
		config.LogError(q.logger, moduleName, "load", "loading queue blob", nil, err)
		return nil, err
	}
	if !found || raw == "" {
		return []models.QueuedOrder{}, nil
	}
	orders, err := utils.UnmarshalFromJSON[[]models.QueuedOrder](raw)
	if err != nil {
		config.LogError(q.logger, moduleName, "load", "decoding queue blob", raw, err)
		return nil, err
	}
	return orders, nil
}

func (q *Queue) save(orders []models.QueuedOrder) error {
	raw, err := utils.MarshalToJSON(orders)
	if err != nil {
		config.LogError(q.logger, moduleName, "save", "encoding queue blob", nil, err)
		return err
	}
	if err := q.kv.Save(store.KeyOrdersQueue, raw); err != nil {
		config.LogError(q.logger, moduleName, "save", "persisting queue blob", nil, err)
		return err
	}
	return nil
}

// Enqueue assigns a local id when the order has none and appends it to the
// durable queue. The enqueue must hit the store before this returns; the
// caller only confirms the sale to the cashier on a nil error.
func (q *Queue) Enqueue(order models.QueuedOrder) (models.QueuedOrder, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if order.LocalID == "" {
		order.LocalID = models.NewLocalID()
	}
	if order.QueuedAt.IsZero() {
		order.QueuedAt = time.Now()
	}
	orders, err := q.load()
	if err != nil {
		return models.QueuedOrder{}, err
	}
	orders = append(orders, order)
	if err := q.save(orders); err != nil {
		return models.QueuedOrder{}, err
	}
	q.logger.WithFields(logrus.Fields{
		"module":  moduleName,
		"localId": order.LocalID,
		"pending": len(orders),
	}).Info("order queued")
	return order, nil
}

// Peek returns a copy of the pending orders in enqueue order.
func (q *Queue) Peek() ([]models.QueuedOrder, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

// Count returns the number of pending orders.
func (q *Queue) Count() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	orders, err := q.load()
	if err != nil {
		return 0, err
	}
	return len(orders), nil
}

// RemovePublished re-reads the queue and drops exactly the given local ids.
// Filtering against a fresh read, not the publisher's snapshot, keeps any
// order enqueued during the publish pass in the queue.
func (q *Queue) RemovePublished(localIDs []string) error {
	if len(localIDs) == 0 {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	published := make(map[string]bool, len(localIDs))
	for _, id := range localIDs {
		published[id] = true
	}
	orders, err := q.load()
	if err != nil {
		return err
	}
	remaining := orders[:0]
	for _, order := range orders {
		if !published[order.LocalID] {
			remaining = append(remaining, order)
		}
	}
	if err := q.save(remaining); err != nil {
		return err
	}
	q.logger.WithFields(logrus.Fields{
		"module":    moduleName,
		"published": len(localIDs),
		"pending":   len(remaining),
	}).Info("published orders removed from queue")
	return nil
}

// Replace overwrites the whole queue in one write. Nothing in the publish
// path calls this; it exists for wholesale rewrites such as dropping a
// corrupt blob or seeding a station.
func (q *Queue) Replace(orders []models.QueuedOrder) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if orders == nil {
		orders = []models.QueuedOrder{}
	}
	return q.save(orders)
}
