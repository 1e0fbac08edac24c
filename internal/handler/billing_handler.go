package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orchids/fitcourse/internal/config"
	"github.com/orchids/fitcourse/internal/domain"
	"github.com/orchids/fitcourse/internal/queue"
	"github.com/orchids/fitcourse/internal/service"
	"github.com/orchids/fitcourse/pkg/logger"
	"github.com/orchids/fitcourse/pkg/response"
	"github.com/orchids/fitcourse/pkg/webhook"
)

const signatureHeader = "Stripe-Signature"

// Webhook bodies beyond this size are rejected outright.
const maxWebhookBody = 1 << 20

type BillingHandler struct {
	billingService *service.BillingService
	queueClient    *queue.QueueClient
	config         *config.BillingConfig
	log            *logger.Logger
}

func NewBillingHandler(
	billingService *service.BillingService,
	queueClient *queue.QueueClient,
	config *config.BillingConfig,
	log *logger.Logger,
) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		queueClient:    queueClient,
		config:         config,
		log:            log,
	}
}

// Checkout starts a hosted checkout session and returns its URL.
func (h *BillingHandler) Checkout(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	url, err := h.billingService.StartCheckout(c.Request.Context(), user)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}

// Portal starts a billing portal session for managing an existing
// subscription.
func (h *BillingHandler) Portal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	url, err := h.billingService.StartPortal(c.Request.Context(), user)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}

// webhookEnvelope mirrors the provider's event wire format, flattened to the
// fields the reconciler needs.
type webhookEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string            `json:"id"`
			Mode              string            `json:"mode"`
			Status            string            `json:"status"`
			Customer          string            `json:"customer"`
			Subscription      string            `json:"subscription"`
			ClientReferenceID string            `json:"client_reference_id"`
			Metadata          map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (e *webhookEnvelope) toProviderEvent() domain.ProviderEvent {
	object := e.Data.Object

	userID := object.Metadata["user_id"]
	if userID == "" {
		userID = object.ClientReferenceID
	}

	event := domain.ProviderEvent{
		ID:         e.ID,
		Type:       e.Type,
		Mode:       object.Mode,
		UserID:     userID,
		CustomerID: object.Customer,
		Status:     object.Status,
	}

	if e.Type == domain.EventCheckoutCompleted {
		event.SubscriptionID = object.Subscription
	} else {
		event.SubscriptionID = object.ID
	}

	return event
}

// Webhook receives provider events. The signature is verified against the
// raw body before anything is parsed; valid events are acknowledged
// immediately and applied asynchronously by the worker.
func (h *BillingHandler) Webhook(c *gin.Context) {
	ctx := c.Request.Context()

	if h.config.WebhookSecret == "" {
		response.ServiceUnavailable(c, "Billing webhook is not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(c, "Failed to read request body")
		return
	}

	err = webhook.Verify(
		[]byte(h.config.WebhookSecret),
		c.GetHeader(signatureHeader),
		body,
		h.config.WebhookTolerance,
		time.Now(),
	)
	if err != nil {
		h.log.Warn(ctx, "webhook signature rejected", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "Invalid webhook signature")
		return
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		response.BadRequest(c, "Invalid webhook payload")
		return
	}

	switch envelope.Type {
	case domain.EventCheckoutCompleted, domain.EventSubscriptionUpdated, domain.EventSubscriptionDeleted:
		if err := h.queueClient.EnqueuePaymentEvent(ctx, envelope.toProviderEvent()); err != nil {
			// A 500 makes the provider redeliver the event later.
			response.InternalError(c, "Failed to queue event")
			return
		}
	default:
		h.log.Debug(ctx, "ignoring unhandled webhook event type", map[string]interface{}{
			"event_id":   envelope.ID,
			"event_type": envelope.Type,
		})
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}
