package creators

import (
	"math"
	"net/http"

	"plangains-backend/db"
	"plangains-backend/models"
	"plangains-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Become a creator
// @Description Open a coach profile for the connected user and upgrade their role
// @Tags creators
// @Accept json
// @Produce json
// @Param creator body models.CreatorCreate true "Creator profile"
// @Security BearerAuth
// @Success 201 {object} models.Creator
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 409 {object} map[string]string "error: Profile or slug already exists"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /creators [post]
func Become(c *gin.Context) {
	var input models.CreatorCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if !utils.ValidateSlug(input.Slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Use lowercase letters, numbers, and dashes (3 to 40 characters)"})
		return
	}

	if input.MonthlyPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be zero or higher"})
		return
	}

	userID := c.MustGet("user_id").(string)

	var existing models.Creator
	if err := db.DB.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a creator profile"})
		return
	}

	if err := db.DB.Where("slug = ?", input.Slug).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "This slug is already taken"})
		return
	}

	creator := models.Creator{
		UserID:            userID,
		DisplayName:       input.DisplayName,
		Slug:              input.Slug,
		Bio:               input.Bio,
		MonthlyPriceCents: int(math.Round(input.MonthlyPrice * 100)),
		IsActive:          true,
	}

	if err := db.DB.Create(&creator).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the creator profile in Become")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the creator profile"})
		return
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", models.CreatorRole).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error upgrading the user role in Become")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error upgrading the user role"})
		return
	}

	utils.LogSuccessWithUser(userID, "Creator profile created in Become")
	c.JSON(http.StatusCreated, creator)
}

// @Summary Update the monthly price
// @Description Update the connected creator's monthly membership price
// @Tags creators
// @Accept json
// @Produce json
// @Param pricing body models.CreatorPricingUpdate true "New monthly price"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Pricing updated"
// @Failure 400 {object} map[string]string "error: Price must be zero or higher"
// @Failure 404 {object} map[string]string "error: Creator profile missing"
// @Router /creators/pricing [patch]
func UpdatePricing(c *gin.Context) {
	var input models.CreatorPricingUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.MonthlyPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be zero or higher"})
		return
	}

	userID := c.MustGet("user_id").(string)

	var creator models.Creator
	if err := db.DB.Where("user_id = ?", userID).First(&creator).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator profile missing"})
		return
	}

	cents := int(math.Round(input.MonthlyPrice * 100))
	if err := db.DB.Model(&creator).Update("monthly_price_cents", cents).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Error updating the price in UpdatePricing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the price"})
		return
	}

	utils.LogSuccessWithUser(userID, "Pricing updated in UpdatePricing")
	c.JSON(http.StatusOK, gin.H{"message": "Pricing updated"})
}

// @Summary List active creators
// @Description Return every active creator, newest first
// @Tags creators
// @Produce json
// @Success 200 {array} models.Creator
// @Router /creators [get]
func List(c *gin.Context) {
	var creators []models.Creator
	err := db.DB.Where("is_active = ?", true).Order("created_at DESC").Find(&creators).Error
	if err != nil {
		utils.LogError(err, "Error fetching creators in List")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching creators"})
		return
	}

	c.JSON(http.StatusOK, creators)
}

// @Summary Get a creator by slug
// @Description Return the public profile of an active creator
// @Tags creators
// @Produce json
// @Param slug path string true "Creator slug"
// @Success 200 {object} models.Creator
// @Failure 404 {object} map[string]string "error: Creator not found"
// @Router /creators/{slug} [get]
func GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var creator models.Creator
	err := db.DB.Where("slug = ? AND is_active = ?", slug, true).First(&creator).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
		return
	}

	c.JSON(http.StatusOK, creator)
}

// @Summary Toggle a creator's active flag
// @Description Admin toggle: an inactive creator no longer accepts new members
// @Tags creators
// @Produce json
// @Param creatorId path string true "ID of the creator"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "message and isActive"
// @Failure 400 {object} map[string]string "error: Invalid creator ID"
// @Failure 404 {object} map[string]string "error: Creator not found"
// @Router /admin/creators/{creatorId}/active [patch]
func ToggleActive(c *gin.Context) {
	creatorId := c.Param("creatorId")
	if _, err := uuid.Parse(creatorId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creator ID"})
		return
	}

	var creator models.Creator
	if err := db.DB.First(&creator, "id = ?", creatorId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Creator not found"})
		return
	}

	// Update écrit la nouvelle valeur dans creator, donc on la fige avant
	newValue := !creator.IsActive
	if err := db.DB.Model(&creator).Update("is_active", newValue).Error; err != nil {
		utils.LogError(err, "Error toggling the active flag in ToggleActive")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the creator"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Creator updated", "isActive": newValue})
}
