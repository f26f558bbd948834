package workouts

import (
	"net/http"

	"plangains-backend/db"
	"plangains-backend/models"
	"plangains-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Log a workout set
// @Description Append a workout and its set to the caller's subscription. Only entitled subscriptions (active, trialing, free) may log.
// @Tags workouts
// @Accept json
// @Produce json
// @Param workout body models.WorkoutCreate true "Workout set"
// @Security BearerAuth
// @Success 201 {object} map[string]string "workoutId"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 403 {object} map[string]string "error: Subscription inactive"
// @Failure 404 {object} map[string]string "error: Subscription not found"
// @Router /workouts [post]
func LogWorkout(c *gin.Context) {
	var input models.WorkoutCreate
	if !utils.ValidateRequestBody(c, &input) {
		return
	}

	if _, err := uuid.Parse(input.SubscriptionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	userID := c.MustGet("user_id").(string)

	var subscription models.Subscription
	if err := db.DB.First(&subscription, "id = ?", input.SubscriptionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	if subscription.MemberID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to log on this subscription"})
		return
	}

	if !subscription.Status.IsEntitled() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Subscription inactive"})
		return
	}

	workout := models.Workout{
		SubscriptionID: subscription.ID,
	}
	if input.ProgramDayID != "" {
		if _, err := uuid.Parse(input.ProgramDayID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program day ID"})
			return
		}
		workout.ProgramDayID = &input.ProgramDayID
	}

	if err := db.DB.Create(&workout).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the workout in LogWorkout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the workout"})
		return
	}

	set := models.WorkoutSet{
		WorkoutID:    workout.ID,
		ExerciseName: input.ExerciseName,
		Weight:       input.Weight,
		Reps:         input.Reps,
		Rpe:          input.Rpe,
		Notes:        input.Notes,
	}

	if err := db.DB.Create(&set).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the workout set in LogWorkout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the workout set"})
		return
	}

	utils.LogSuccessWithUser(userID, "Workout logged in LogWorkout")
	c.JSON(http.StatusCreated, gin.H{"workoutId": workout.ID})
}

// @Summary List the caller's workouts
// @Description Return the workout history across all of the caller's subscriptions, newest first
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Workout
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /workouts [get]
func GetWorkouts(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	var workouts []models.Workout
	err := db.DB.
		Joins("JOIN subscriptions ON subscriptions.id = workouts.subscription_id").
		Where("subscriptions.member_id = ?", userID).
		Order("workouts.performed_at DESC").
		Find(&workouts).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching workouts in GetWorkouts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching workouts"})
		return
	}

	c.JSON(http.StatusOK, workouts)
}
