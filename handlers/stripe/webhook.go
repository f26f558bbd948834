package stripe

import (
	"io"
	"net/http"
	"os"

	"plangains-backend/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Handler carries the injected Stripe gateway and the reconciler. Routes
// construct one instance; tests inject a stub gateway.
type Handler struct {
	gateway    Gateway
	reconciler *Reconciler
}

func NewHandler(gateway Gateway) *Handler {
	return &Handler{
		gateway:    gateway,
		reconciler: NewReconciler(gateway),
	}
}

// HandleWebhook ingests Stripe event notifications
// @Summary Stripe webhook endpoint
// @Description Verify the Stripe signature and reconcile subscription and account state
// @Tags stripe
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool "received: true"
// @Failure 400 {object} map[string]string "error: signature or configuration failure"
// @Failure 500 {object} map[string]string "error: internal failure, Stripe will retry"
// @Router /stripe/webhook [post]
func (h *Handler) HandleWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Impossible to read the request body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		utils.LogError(nil, "STRIPE_WEBHOOK_SECRET not configured in HandleWebhook")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook not configured"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Stripe-Signature header"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, sig, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stripe signature verification failed"})
		return
	}

	if !relevantEvents[event.Type] {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		err = h.handleCheckoutCompleted(event)
	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
		err = h.handleSubscriptionChanged(event)
	case "account.updated":
		err = h.handleAccountUpdated(event)
	}

	if err != nil {
		utils.LogError(err, "Webhook processing failed for event "+event.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// handleCheckoutCompleted promotes the provisional "incomplete" row written
// at checkout time to the real subscription state. The session only carries
// references, so the subscription is fetched before reconciling.
func (h *Handler) handleCheckoutCompleted(event stripe.Event) error {
	cmd, err := decodeCheckoutCompleted(event)
	if err != nil || cmd == nil {
		logEventSkipped(event, err)
		return nil
	}

	if h.gateway == nil {
		return ErrNotConfigured
	}

	sub, err := h.gateway.RetrieveSubscription(cmd.SubscriptionID)
	if err != nil {
		return err
	}

	return h.reconciler.UpsertSubscription(UpsertParams{
		MemberID:             cmd.MemberID,
		CreatorID:            cmd.CreatorID,
		StripeSubscriptionId: sub.ID,
		StripeCustomerId:     subscriptionCustomerID(sub),
		PriceCents:           subscriptionPriceCents(sub),
		Status:               NormalizeStatus(sub),
		PeriodEnd:            subscriptionPeriodEnd(sub),
		CheckoutSessionID:    &cmd.CheckoutSessionID,
	})
}

func (h *Handler) handleSubscriptionChanged(event stripe.Event) error {
	cmd, err := decodeSubscriptionChanged(event)
	if err != nil || cmd == nil {
		logEventSkipped(event, err)
		return nil
	}

	return h.reconciler.UpsertSubscription(UpsertParams{
		MemberID:             cmd.MemberID,
		CreatorID:            cmd.CreatorID,
		StripeSubscriptionId: cmd.Subscription.ID,
		StripeCustomerId:     subscriptionCustomerID(cmd.Subscription),
		PriceCents:           subscriptionPriceCents(cmd.Subscription),
		Status:               NormalizeStatus(cmd.Subscription),
		PeriodEnd:            subscriptionPeriodEnd(cmd.Subscription),
	})
}

func (h *Handler) handleAccountUpdated(event stripe.Event) error {
	cmd, err := decodeAccountUpdated(event)
	if err != nil || cmd == nil {
		logEventSkipped(event, err)
		return nil
	}

	return h.reconciler.ApplyAccountSnapshot(cmd.Account)
}

// Malformed or uncorrelated events are dropped without failing the
// delivery, but always leave a trace in the logs.
func logEventSkipped(event stripe.Event, err error) {
	utils.LogError(err, "Event skipped: "+string(event.Type)+" "+event.ID)
}
