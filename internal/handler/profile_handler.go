package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tigersaymon/lfg-teammate-finder/internal/auth"
	"github.com/tigersaymon/lfg-teammate-finder/internal/database"
	"github.com/tigersaymon/lfg-teammate-finder/internal/models"
)

// region --- DTOs ---

type ProfileInput struct {
	Rank       string `json:"rank" binding:"max=50"`
	MainRoleID *uint  `json:"main_role_id"`
}

type ProfileResponse struct {
	ID        uint          `json:"id"`
	Game      GameResponse  `json:"game"`
	Rank      string        `json:"rank,omitempty"`
	MainRole  *RoleResponse `json:"main_role,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func newProfileResponse(profile models.GameProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:        profile.ID,
		Game:      newGameResponse(profile.Game),
		Rank:      profile.Rank,
		CreatedAt: profile.CreatedAt,
	}
	if profile.MainRole != nil {
		role := newRoleResponse(*profile.MainRole)
		resp.MainRole = &role
	}
	return resp
}

// endregion

// validateProfileRole checks that a chosen main role belongs to the game.
func validateProfileRole(c *gin.Context, gameID uint, roleID *uint) bool {
	if roleID == nil {
		return true
	}
	var role models.GameRole
	if err := database.DB.Where("game_id = ?", gameID).First(&role, *roleID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role does not belong to this game"})
		return false
	}
	return true
}

// GetMyProfiles godoc
// @Summary      Get own game profiles
// @Description  Lists the authenticated user's game profiles, newest first.
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} ProfileResponse
// @Router       /profiles [get]
func GetMyProfiles(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	var profiles []models.GameProfile
	err := database.DB.
		Preload("Game").
		Preload("MainRole").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profiles"})
		return
	}

	response := make([]ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		response = append(response, newProfileResponse(profile))
	}

	c.JSON(http.StatusOK, response)
}

// CreateProfile godoc
// @Summary      Create a game profile
// @Description  Creates the authenticated user's profile for a game, unlocking lobby creation and joining.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path string       true "Game Slug"
// @Param        input body ProfileInput true "Profile Info"
// @Success      201 {object} ProfileResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      409 {object} ErrorResponse "Profile already exists"
// @Router       /games/{slug}/profile [post]
func CreateProfile(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validateProfileRole(c, game.ID, input.MainRoleID) {
		return
	}

	var existing models.GameProfile
	if err := database.DB.Where("user_id = ? AND game_id = ?", userID, game.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a profile for this game"})
		return
	}

	profile := models.GameProfile{
		UserID:     userID,
		GameID:     game.ID,
		Rank:       input.Rank,
		MainRoleID: input.MainRoleID,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	database.DB.Preload("Game").Preload("MainRole").First(&profile, profile.ID)
	c.JSON(http.StatusCreated, newProfileResponse(profile))
}

// UpdateProfile godoc
// @Summary      Update a game profile
// @Description  Updates the authenticated user's rank or main role for a game.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path string       true "Game Slug"
// @Param        input body ProfileInput true "New Profile Info"
// @Success      200 {object} ProfileResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Profile not found"
// @Router       /games/{slug}/profile [put]
func UpdateProfile(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	var profile models.GameProfile
	if err := database.DB.Where("user_id = ? AND game_id = ?", userID, game.ID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validateProfileRole(c, game.ID, input.MainRoleID) {
		return
	}

	profile.Rank = input.Rank
	profile.MainRoleID = input.MainRoleID
	if err := database.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	database.DB.Preload("Game").Preload("MainRole").First(&profile, profile.ID)
	c.JSON(http.StatusOK, newProfileResponse(profile))
}

// DeleteProfile godoc
// @Summary      Delete a game profile
// @Description  Removes the authenticated user's profile for a game.
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Game Slug"
// @Success      200 {object} map[string]string "{"message": "Profile deleted"}"
// @Failure      404 {object} ErrorResponse "Profile not found"
// @Router       /games/{slug}/profile [delete]
func DeleteProfile(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	result := database.DB.
		Where("user_id = ? AND game_id = ?", userID, game.ID).
		Delete(&models.GameProfile{})
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted"})
}
