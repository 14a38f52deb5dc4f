package config

import (
	"os"
	"strings"
)

// AutoPublishEnabled controls the background worker that drains the local
// order queue whenever the central API becomes reachable again.
//
// Set via env:
// - AUTO_PUBLISH=false to rely on the cashier's manual publish button only.
//
// Default: enabled. A queue that only drains on a manual click tends to grow
// unbounded on stations where nobody watches the badge.
func AutoPublishEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("AUTO_PUBLISH")))
	if v == "false" || v == "0" || v == "no" {
		return false
	}
	return true
}

// LocalStoreBackend selects where the durable blobs live.
//
// Set via env:
// - LOCAL_STORE=redis to persist the queue/catalog blobs in Redis
//   (requires Redis configured with appendonly persistence).
//
// Default: "db" (the station MariaDB).
func LocalStoreBackend() string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("LOCAL_STORE")))
	if v == "redis" {
		return "redis"
	}
	return "db"
}
