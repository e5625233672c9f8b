package handlers

import (
	"io"
	"net/http"

	"fazservico_backend/internal/services"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{BaseHandler: base, subscriptionService: subscriptionService}
}

// ListPlans handles GET /plans.
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	resp, err := h.subscriptionService.ListPlans(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": resp})
}

// Me handles GET /subscriptions/me.
func (h *SubscriptionHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.subscriptionService.GetMySubscription(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Checkout handles POST /subscriptions/checkout.
func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.subscriptionService.Checkout(h.GetDB(c), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel handles POST /subscriptions/cancel.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.CancelMySubscription(h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription will be cancelled at the end of the current period"})
}

// Webhook handles POST /subscriptions/webhook. The route is public; the
// request is authenticated by its provider signature instead of a bearer
// token.
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unable to read webhook payload"))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.subscriptionService.ProcessWebhook(h.GetDB(c), payload, signature); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
