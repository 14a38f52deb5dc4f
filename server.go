package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/manakirana/pos_backend/catalog"
	"github.com/manakirana/pos_backend/config"
	"github.com/manakirana/pos_backend/middlewares"
	"github.com/manakirana/pos_backend/publisher"
	"github.com/manakirana/pos_backend/queue"
	"github.com/manakirana/pos_backend/remote"
	"github.com/manakirana/pos_backend/store"
	"github.com/manakirana/pos_backend/utils"
)

const defaultPort = "8080"

var tracer = otel.Tracer("manakirana-pos-station")

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
			return utils.IsValidPhone10(fl.Field().String())
		})
	}

	app := &api{logger: logger}
	var ready atomic.Bool

	// Start the HTTP server before the local store is connected. Until the
	// store is ready, app endpoints answer 503; the probe stays green so
	// the till frontend can show a "starting" state instead of a timeout.
	r := gin.New()
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if !ready.Load() {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "X-Catalog-Source")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/health", app.healthHandler)
	r.POST("/pos/orders/queue", app.enqueueOrderHandler)
	r.GET("/pos/orders/queue", app.queuedOrdersHandler)
	r.GET("/pos/orders/queue/count", app.queueCountHandler)
	r.POST("/pos/orders/publish", app.publishQueueHandler)
	r.GET("/pos/orders/remote/:segment", app.remoteOrdersHandler)
	r.PUT("/pos/orders/remote/:id/:action", app.updateRemoteOrderHandler)
	r.GET("/pos/products", app.productsHandler)
	r.POST("/pos/products/refresh", app.refreshProductsHandler)
	r.DELETE("/pos/cache", app.clearCacheHandler)
	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect the local store after the port is open.
	kv := connectLocalStore(logger)

	client := remote.NewClient()
	app.queue = queue.NewQueue(kv, logger)
	app.cache = catalog.NewCache(kv, logger)
	app.hydrator = catalog.NewHydrator(app.cache, client, logger)
	app.publisher = publisher.NewPublisher(app.queue, app.cache, client, config.GetRedisLock(), logger)
	app.client = client
	ready.Store(true)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	if config.AutoPublishEnabled() {
		go runAutoPublish(workerCtx, app.publisher, app.queue, logger)
	} else {
		logger.WithFields(logrus.Fields{"field": "autopublish"}).Warn("AUTO_PUBLISH=false; queued orders publish only on demand")
	}

	logger.WithFields(logrus.Fields{
		"info": "Station Ready",
	}).Info("pos station listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Stop the auto-publish worker first so no pass starts mid-drain.
	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if db := config.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// connectLocalStore brings up the configured KV backend, blocking until it
// is usable. The queue blob has to be durable before the first sale lands.
func connectLocalStore(logger *logrus.Logger) store.KV {
	switch config.LocalStoreBackend() {
	case "redis":
		config.ConnectRedisWithRetry()
		return store.NewRedisStore(config.GetRedisDB())
	default:
		config.ConnectDatabaseWithRetry()
		dbStore := store.NewDBStore(config.GetDB())
		for attempt := 1; ; attempt++ {
			err := dbStore.Migrate()
			if err == nil {
				break
			}
			sleep := time.Second * time.Duration(1<<min(attempt, 5))
			if sleep > 30*time.Second {
				sleep = 30 * time.Second
			}
			logger.WithFields(logrus.Fields{
				"field":   "migrations",
				"attempt": attempt,
			}).Warn("local blob migration failed; retrying in " + sleep.String() + ": " + err.Error())
			time.Sleep(sleep)
		}
		// The publish lock is an optional extra; only wire it when a
		// Redis address is configured alongside the database backend.
		if strings.TrimSpace(os.Getenv("REDIS_ADDRESS")) != "" {
			config.ConnectRedisWithRetry()
		}
		return dbStore
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
