// Package store is the station's local persistent store: a small string
// key-value surface that the order queue and product cache blobs live under.
// Each blob is one JSON document under one well-known key.
package store

// Versioned keys. Bumping the suffix orphans old blobs instead of trying to
// migrate them in place; a fresh catalog fetch / empty queue is the recovery.
const (
	KeyProducts    = "mk_products_v1"
	KeyOrdersQueue = "mk_orders_queue_v1"
)

// KV is the synchronous load/save contract both durable backends satisfy.
// There is no cross-key atomicity; callers own one key each.
type KV interface {
	// Load returns the value and whether the key exists.
	Load(key string) (string, bool, error)
	// Save overwrites the value in a single write.
	Save(key string, value string) error
	// Delete removes the given keys; missing keys are not an error.
	Delete(keys ...string) error
}
