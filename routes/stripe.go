package routes

import (
	"plangains-backend/handlers/stripe"
	"plangains-backend/middleware"

	"github.com/gin-gonic/gin"
)

func StripeRoutes(r *gin.Engine, h *stripe.Handler) {
	subscriptionRoutes := r.Group("/subscriptions")
	subscriptionRoutes.Use(middleware.JWTAuth())
	{
		subscriptionRoutes.POST("/checkout/:creatorId", h.StartSubscription)
		subscriptionRoutes.DELETE("/:subscriptionId", h.CancelSubscription)
		subscriptionRoutes.GET("", h.GetUserSubscriptions)
	}

	connectRoutes := r.Group("/connect")
	connectRoutes.Use(middleware.JWTAuth())
	{
		connectRoutes.POST("/onboarding-link", h.CreateOnboardingLink)
		connectRoutes.POST("/refresh", h.RefreshAccountStatus)
	}

	r.POST("/stripe/webhook", h.HandleWebhook)
}
