package routes

import (
	"plangains-backend/handlers/programs"
	"plangains-backend/middleware"

	"github.com/gin-gonic/gin"
)

func ProgramsRoutes(r *gin.Engine) {
	programRoutes := r.Group("/programs")
	programRoutes.Use(middleware.JWTAuth())
	{
		programRoutes.POST("", programs.CreateProgram)
		programRoutes.GET("/:creatorId", programs.GetCreatorPrograms)
	}
}
