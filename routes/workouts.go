package routes

import (
	"plangains-backend/handlers/workouts"
	"plangains-backend/middleware"

	"github.com/gin-gonic/gin"
)

func WorkoutsRoutes(r *gin.Engine) {
	workoutRoutes := r.Group("/workouts")
	workoutRoutes.Use(middleware.JWTAuth())
	{
		workoutRoutes.POST("", workouts.LogWorkout)
		workoutRoutes.GET("", workouts.GetWorkouts)
	}
}
