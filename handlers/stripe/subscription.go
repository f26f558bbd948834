package stripe

import (
	"net/http"
	"time"

	"plangains-backend/db"
	"plangains-backend/models"
	"plangains-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
)

// StartSubscription subscribes the caller to a creator. A free creator is
// subscribed directly with status "free"; a paid creator gets a Stripe
// Checkout session plus a provisional "incomplete" row which the webhook
// later overwrites once checkout completes.
// @Summary Subscribe to a creator
// @Description Subscribe directly for a free creator, or start a Stripe Checkout session for a paid one
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param creatorId path string true "ID of the creator"
// @Security BearerAuth
// @Success 200 {object} map[string]string "sessionId and url for paid creators, message for free ones"
// @Failure 400 {object} map[string]string "error: Invalid creator ID"
// @Failure 403 {object} map[string]string "error: Creator not accepting members"
// @Failure 404 {object} map[string]string "error: Creator not found"
// @Failure 409 {object} map[string]string "error: Payout onboarding not finished"
// @Failure 503 {object} map[string]string "error: Stripe is not configured"
// @Router /subscriptions/checkout/{creatorId} [post]
func (h *Handler) StartSubscription(c *gin.Context) {
	creatorId := c.Param("creatorId")
	if _, err := uuid.Parse(creatorId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		utils.LogError(nil, "User not authenticated in StartSubscription")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var member models.User
	if err := db.DB.First(&member, "id = ?", userID).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "User not found in StartSubscription")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var creator models.Creator
	if err := db.DB.First(&creator, "id = ?", creatorId).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Creator not found in StartSubscription")
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
		return
	}

	if !creator.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "This creator is not accepting new members"})
		return
	}

	// Free tier: same upsert path as the reconciler, no Stripe involved
	if creator.IsFree() {
		err := h.reconciler.UpsertSubscription(UpsertParams{
			MemberID:   member.ID,
			CreatorID:  creator.ID,
			Status:     models.SubscriptionFree,
			PriceCents: 0,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving the subscription"})
			return
		}
		utils.LogSuccessWithUser(userID, "Free subscription created in StartSubscription")
		c.JSON(http.StatusOK, gin.H{"message": "Subscribed"})
		return
	}

	if h.gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe is not configured"})
		return
	}

	if !creator.CanAcceptPaidSubscriptions() {
		c.JSON(http.StatusConflict, gin.H{"error": "This creator has not finished payout onboarding"})
		return
	}

	metadata := map[string]string{
		"member_id":  member.ID,
		"creator_id": creator.ID,
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(member.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(creator.DisplayName + " Membership"),
					},
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String("month"),
					},
					UnitAmount: stripe.Int64(int64(creator.MonthlyPriceCents)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(SiteURL() + "/creator/" + creator.Slug + "?checkout=success"),
		CancelURL:  stripe.String(SiteURL() + "/creator/" + creator.Slug + "?checkout=cancelled"),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata:        metadata,
			TrialPeriodDays: stripe.Int64(7),
			TransferData: &stripe.CheckoutSessionSubscriptionDataTransferDataParams{
				Destination: stripe.String(creator.StripeAccountId),
			},
			ApplicationFeePercent: stripe.Float64(PlatformFeePercent()),
		},
	}
	params.Metadata = metadata

	s, err := h.gateway.CreateCheckoutSession(params)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the Stripe session in StartSubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the Stripe session"})
		return
	}

	// Provisional row, overwritten by the webhook once checkout completes
	err = h.reconciler.UpsertSubscription(UpsertParams{
		MemberID:          member.ID,
		CreatorID:         creator.ID,
		Status:            models.SubscriptionIncomplete,
		PriceCents:        creator.MonthlyPriceCents,
		CheckoutSessionID: &s.ID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving the subscription"})
		return
	}

	utils.LogSuccessWithUser(userID, "Stripe checkout session created in StartSubscription")
	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}

// CancelSubscription cancels a subscription. When a Stripe reference
// exists the Stripe cancellation must succeed before the local row is
// touched, so an unreachable processor never leaves an inconsistent state.
// @Summary Cancel a subscription
// @Description Cancel the Stripe subscription first when one exists, then update the local status
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscriptionId path string true "ID of the subscription to cancel"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Subscription canceled successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: You are not authorized to cancel this subscription"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Failure 500 {object} map[string]string "error: Error when canceling the Stripe subscription"
// @Failure 503 {object} map[string]string "error: Stripe is not configured"
// @Router /subscriptions/{subscriptionId} [delete]
func (h *Handler) CancelSubscription(c *gin.Context) {
	subscriptionId := c.Param("subscriptionId")

	if _, err := uuid.Parse(subscriptionId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		utils.LogError(nil, "User not authenticated in CancelSubscription")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscription models.Subscription
	if err := db.DB.First(&subscription, "id = ?", subscriptionId).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Subscription not found in CancelSubscription")
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	if subscription.MemberID != userID {
		utils.LogErrorWithUser(userID, nil, "Not authorized to cancel this subscription in CancelSubscription")
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to cancel this subscription"})
		return
	}

	updates := map[string]interface{}{
		"status": models.SubscriptionCanceled,
	}

	if subscription.StripeSubscriptionId != "" {
		if h.gateway == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe is not configured"})
			return
		}

		canceled, err := h.gateway.CancelSubscription(subscription.StripeSubscriptionId)
		if err != nil {
			utils.LogErrorWithUser(userID, err, "Stripe cancellation failed in CancelSubscription")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error when canceling the Stripe subscription"})
			return
		}

		if end := subscriptionPeriodEnd(canceled); end != nil {
			updates["current_period_end"] = time.Unix(*end, 0).UTC()
		}
	}

	if err := db.DB.Model(&subscription).Updates(updates).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error updating the status in CancelSubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error when updating the subscription status"})
		return
	}

	utils.LogSuccessWithUser(userID, "Subscription canceled successfully in CancelSubscription")
	c.JSON(http.StatusOK, gin.H{"message": "Subscription canceled successfully"})
}

// GetUserSubscriptions get all the subscriptions of the connected user
// @Summary List the user's subscriptions
// @Description Return all the subscriptions (active, canceled, history) of the connected user
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Subscription
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /subscriptions [get]
func (h *Handler) GetUserSubscriptions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.LogError(nil, "User not authenticated in GetUserSubscriptions")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var subscriptions []models.Subscription
	err := db.DB.Where("member_id = ?", userID).Order("created_at DESC").Find(&subscriptions).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching subscriptions in GetUserSubscriptions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subscriptions)
}
