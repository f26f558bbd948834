package programs

import (
	"net/http"

	"plangains-backend/db"
	"plangains-backend/models"
	"plangains-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// @Summary Create a program
// @Description Create a training program with its days and exercises in one batch
// @Tags programs
// @Accept json
// @Produce json
// @Param program body models.ProgramCreate true "Program with ordered days"
// @Security BearerAuth
// @Success 201 {object} models.Program
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 404 {object} map[string]string "error: Creator profile missing"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /programs [post]
func CreateProgram(c *gin.Context) {
	var input models.ProgramCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	userID := c.MustGet("user_id").(string)

	var creator models.Creator
	if err := db.DB.Where("user_id = ?", userID).First(&creator).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator profile missing"})
		return
	}

	program := models.Program{
		CreatorID:   creator.ID,
		Title:       input.Title,
		Description: input.Description,
		IsPublished: true,
	}

	// Days are numbered 1..n and exercises positioned 0..m within the same
	// transaction, so a partial batch can never leave gaps in the ordering.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&program).Error; err != nil {
			return err
		}

		for dayIndex, day := range input.Days {
			dayRow := models.ProgramDay{
				ProgramID: program.ID,
				DayNumber: dayIndex + 1,
				Title:     day.Title,
			}
			if err := tx.Create(&dayRow).Error; err != nil {
				return err
			}

			for position, name := range day.Exercises {
				exercise := models.ProgramExercise{
					ProgramDayID: dayRow.ID,
					Name:         name,
					Position:     position,
				}
				if err := tx.Create(&exercise).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the program in CreateProgram")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the program"})
		return
	}

	utils.LogSuccessWithUser(userID, "Program created in CreateProgram")
	c.JSON(http.StatusCreated, program)
}

// @Summary List a creator's programs
// @Description Return the creator's published programs with days and exercises. Requires an entitled subscription or ownership.
// @Tags programs
// @Produce json
// @Param creatorId path string true "ID of the creator"
// @Security BearerAuth
// @Success 200 {array} models.Program
// @Failure 400 {object} map[string]string "error: Invalid creator ID"
// @Failure 403 {object} map[string]string "error: Subscription required"
// @Failure 404 {object} map[string]string "error: Creator not found"
// @Router /programs/{creatorId} [get]
func GetCreatorPrograms(c *gin.Context) {
	creatorId := c.Param("creatorId")
	if _, err := uuid.Parse(creatorId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	userID := c.MustGet("user_id").(string)

	var creator models.Creator
	if err := db.DB.First(&creator, "id = ?", creatorId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
		return
	}

	if creator.UserID != userID {
		var subscription models.Subscription
		err := db.DB.Where("member_id = ? AND creator_id = ?", userID, creator.ID).First(&subscription).Error
		if err != nil || !subscription.Status.IsEntitled() {
			c.JSON(http.StatusForbidden, gin.H{"error": "An active subscription is required to view these programs"})
			return
		}
	}

	var programs []models.Program
	err := db.DB.Where("creator_id = ? AND is_published = ?", creator.ID, true).
		Preload("Days", func(tx *gorm.DB) *gorm.DB { return tx.Order("day_number ASC") }).
		Preload("Days.Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Order("created_at DESC").
		Find(&programs).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error fetching programs in GetCreatorPrograms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching programs"})
		return
	}

	c.JSON(http.StatusOK, programs)
}
