package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/manakirana/pos_backend/catalog"
	"github.com/manakirana/pos_backend/models"
	"github.com/manakirana/pos_backend/publisher"
	"github.com/manakirana/pos_backend/queue"
	"github.com/manakirana/pos_backend/remote"
	"github.com/manakirana/pos_backend/utils"
)

type api struct {
	queue     *queue.Queue
	cache     *catalog.Cache
	hydrator  *catalog.Hydrator
	publisher *publisher.Publisher
	client    *remote.Client
	logger    *logrus.Logger
}

func (a *api) healthHandler(c *gin.Context) {
	count, err := a.queue.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"online":       a.client.Ping(c.Request.Context()),
		"queuedOrders": count,
	})
}

type enqueueOrderRequest struct {
	Payload       models.OrderPayload `json:"payload" binding:"required"`
	CartItems     []models.CartItem   `json:"cartItems" binding:"required,min=1"`
	CustomerPhone string              `json:"customerPhone" binding:"omitempty,phone10"`
	CustomerName  string              `json:"customerName"`
}

func (a *api) enqueueOrderHandler(c *gin.Context) {
	var req enqueueOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	phone := req.CustomerPhone
	if phone != "" {
		normalized, err := utils.NormalizePhone10(phone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer phone"})
			return
		}
		phone = normalized
	}

	order := models.QueuedOrder{
		Payload:           req.Payload,
		CartItemsSnapshot: req.CartItems,
		CustomerPhone:     phone,
		CustomerName:      req.CustomerName,
	}
	if token, ok := utils.GetTokenFromContext(c.Request.Context()); ok {
		order.AuthToken = token
	}

	queued, err := a.queue.Enqueue(order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, queued)
}

func (a *api) queuedOrdersHandler(c *gin.Context) {
	orders, err := a.queue.Peek()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (a *api) queueCountHandler(c *gin.Context) {
	count, err := a.queue.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (a *api) publishQueueHandler(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "publishQueue")
	defer span.End()
	token, _ := utils.GetTokenFromContext(ctx)

	result, err := a.publisher.Publish(ctx, token)
	if errors.Is(err, publisher.ErrOffline) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "offline", "detail": err.Error()})
		return
	}
	if errors.Is(err, publisher.ErrPublishInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *api) productsHandler(c *gin.Context) {
	products, source, err := a.hydrator.CacheFirst(c.Request.Context())
	if errors.Is(err, catalog.ErrOfflineNoCache) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("X-Catalog-Source", string(source))
	c.JSON(http.StatusOK, products)
}

func (a *api) refreshProductsHandler(c *gin.Context) {
	products, err := a.hydrator.ForceFresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// clearCacheHandler drops the product cache on operator logout. The order
// queue is deliberately left alone: unpublished sales must survive logout.
func (a *api) clearCacheHandler(c *gin.Context) {
	if err := a.cache.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) remoteOrdersHandler(c *gin.Context) {
	token, ok := utils.GetTokenFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	raw, err := a.client.ListOrders(c.Request.Context(), token, remote.OrderSegment(c.Param("segment")))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (a *api) updateRemoteOrderHandler(c *gin.Context) {
	token, ok := utils.GetTokenFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	raw, err := a.client.UpdateOrderState(c.Request.Context(), token, c.Param("id"), remote.OrderAction(c.Param("action")))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}
