package routes

import (
	"plangains-backend/handlers/creators"
	"plangains-backend/middleware"

	"github.com/gin-gonic/gin"
)

func CreatorsRoutes(r *gin.Engine) {
	r.GET("/creators", creators.List)
	r.GET("/creators/:slug", creators.GetBySlug)

	creatorRoutes := r.Group("/creators")
	creatorRoutes.Use(middleware.JWTAuth())
	{
		creatorRoutes.POST("", creators.Become)
		creatorRoutes.PATCH("/pricing", creators.UpdatePricing)
	}

	r.PATCH("/admin/creators/:creatorId/active", middleware.AdminAuth(), creators.ToggleActive)
}
