package stripe

import (
	"net/http"
	"os"

	"plangains-backend/db"
	"plangains-backend/models"
	"plangains-backend/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
)

// CreateOnboardingLink opens (or resumes) Stripe Connect onboarding for the
// caller's creator profile. The standard account is created once; its id is
// persisted before the link is minted so a retried request reuses it.
// @Summary Create a Stripe Connect onboarding link
// @Description Create the creator's Stripe account when needed and return an account onboarding link
// @Tags connect
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "url: Stripe onboarding URL"
// @Failure 404 {object} map[string]string "error: Create a creator profile first"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Failure 503 {object} map[string]string "error: Stripe is not configured"
// @Router /connect/onboarding-link [post]
func (h *Handler) CreateOnboardingLink(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var creator models.Creator
	if err := db.DB.First(&creator, "user_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Create a creator profile first"})
		return
	}

	if h.gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe is not configured"})
		return
	}

	accountID := creator.StripeAccountId
	if accountID == "" {
		var user models.User
		if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		account, err := h.gateway.CreateAccount(&stripe.AccountParams{
			Type:  stripe.String(string(stripe.AccountTypeStandard)),
			Email: stripe.String(user.Email),
		})
		if err != nil {
			utils.LogErrorWithUser(userID, err, "Error creating the Stripe account in CreateOnboardingLink")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the Stripe account"})
			return
		}
		accountID = account.ID

		if err := db.DB.Model(&creator).Update("stripe_account_id", accountID).Error; err != nil {
			utils.LogErrorWithUser(userID, err, "Error saving the Stripe account id in CreateOnboardingLink")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving the Stripe account"})
			return
		}
	}

	refreshURL := os.Getenv("STRIPE_CONNECT_REFRESH_URL")
	if refreshURL == "" {
		refreshURL = SiteURL() + "/creator/settings"
	}
	returnURL := os.Getenv("STRIPE_CONNECT_RETURN_URL")
	if returnURL == "" {
		returnURL = SiteURL() + "/creator/settings"
	}

	link, err := h.gateway.CreateAccountLink(&stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the onboarding link in CreateOnboardingLink")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the onboarding link"})
		return
	}

	utils.LogSuccessWithUser(userID, "Onboarding link created in CreateOnboardingLink")
	c.JSON(http.StatusOK, gin.H{"url": link.URL})
}

// RefreshAccountStatus re-derives the onboarding flag from the latest
// account snapshot. Used on the onboarding return leg; the webhook's
// account.updated events keep it converged afterwards.
// @Summary Refresh the creator's payout onboarding status
// @Description Fetch the Stripe account and recompute the onboarding-complete flag
// @Tags connect
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Creator
// @Failure 400 {object} map[string]string "error: No Stripe account to refresh"
// @Failure 404 {object} map[string]string "error: Create a creator profile first"
// @Failure 503 {object} map[string]string "error: Stripe is not configured"
// @Router /connect/refresh [post]
func (h *Handler) RefreshAccountStatus(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var creator models.Creator
	if err := db.DB.First(&creator, "user_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Create a creator profile first"})
		return
	}

	if creator.StripeAccountId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No Stripe account to refresh"})
		return
	}

	if err := h.reconciler.ReconcileAccountStatus(creator.StripeAccountId); err != nil {
		if err == ErrNotConfigured {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe is not configured"})
			return
		}
		utils.LogErrorWithUser(userID, err, "Account reconciliation failed in RefreshAccountStatus")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error refreshing the account status"})
		return
	}

	if err := db.DB.First(&creator, "id = ?", creator.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching the creator"})
		return
	}

	c.JSON(http.StatusOK, creator)
}
