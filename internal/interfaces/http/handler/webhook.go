package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/application/bridge"
	"github.com/syncbridge/backend/internal/infrastructure/logger"
)

// Webhook payloads are a single event descriptor; anything larger is noise.
const maxWebhookPayloadSize = 65536

// OrderEventHandler processes an inbound order-changed event.
type OrderEventHandler interface {
	HandleOrderUpdate(ctx context.Context, salesOrderID string) bridge.Outcome
}

// WebhookHandler receives order-changed callbacks from the inventory
// platform. The endpoint is unauthenticated by contract with the platform
// and must acknowledge every well-formed delivery with 200, whatever the
// propagation outcome, so the platform does not retry.
type WebhookHandler struct {
	events OrderEventHandler
	log    *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(events OrderEventHandler, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{events: events, log: log}
}

// HandleOrderUpdate handles POST /webhook.
func (h *WebhookHandler) HandleOrderUpdate(c *gin.Context) {
	log := logger.FromGin(c, h.log)

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil || len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		log.Error("invalid webhook payload", zap.ByteString("payload", payload))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	salesOrderID, _ := data["salesOrderId"].(string)
	if salesOrderID == "" {
		log.Error("webhook payload missing salesOrderId", zap.ByteString("payload", payload))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing salesOrderId"})
		return
	}

	outcome := h.events.HandleOrderUpdate(c.Request.Context(), salesOrderID)
	log.Info("webhook processed",
		zap.String("sales_order_id", salesOrderID),
		zap.String("outcome", string(outcome)),
	)

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK})
}
