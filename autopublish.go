package main

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/manakirana/pos_backend/publisher"
	"github.com/manakirana/pos_backend/queue"
)

// runAutoPublish drains the queue in the background whenever connectivity
// comes back, so orders flow out without the cashier pressing anything.
// While the central API stays down the poll period backs off exponentially.
func runAutoPublish(ctx context.Context, pub *publisher.Publisher, q *queue.Queue, logger *logrus.Logger) {
	cfg := publisher.GetRetryConfig()
	failedAttempts := 0

	wait := func(d time.Duration) bool {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		}
	}

	for {
		delay := cfg.Interval
		if failedAttempts > 0 {
			delay = publisher.Backoff(failedAttempts, cfg)
		}
		if !wait(delay) {
			return
		}

		count, err := q.Count()
		if err != nil {
			logger.WithFields(logrus.Fields{
				"field": "autopublish",
			}).Error("queue count failed: " + err.Error())
			failedAttempts++
			continue
		}
		if count == 0 {
			failedAttempts = 0
			continue
		}

		result, err := pub.Publish(ctx, "")
		switch {
		case errors.Is(err, publisher.ErrOffline):
			failedAttempts++
			logger.WithFields(logrus.Fields{
				"field":    "autopublish",
				"pending":  count,
				"attempts": failedAttempts,
			}).Info("still offline; orders stay queued")
		case errors.Is(err, publisher.ErrPublishInProgress):
			failedAttempts = 0
		case err != nil:
			failedAttempts++
			logger.WithFields(logrus.Fields{
				"field":    "autopublish",
				"attempts": failedAttempts,
			}).Error("publish pass failed: " + err.Error())
		default:
			failedAttempts = 0
			if result.PublishedCount > 0 || result.FailedCount > 0 {
				logger.WithFields(logrus.Fields{
					"field":     "autopublish",
					"published": result.PublishedCount,
					"failed":    result.FailedCount,
				}).Info("background publish pass finished")
			}
		}
	}
}
