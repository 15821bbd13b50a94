package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/tigersaymon/lfg-teammate-finder/internal/auth"
	"github.com/tigersaymon/lfg-teammate-finder/internal/database"
	"github.com/tigersaymon/lfg-teammate-finder/internal/models"
	"github.com/tigersaymon/lfg-teammate-finder/pkg/jwt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Nickname string `json:"nickname" binding:"required" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateMeInput defines the editable fields of a user's own account.
type UpdateMeInput struct {
	Bio        string `json:"bio" binding:"max=500"`
	DiscordTag string `json:"discord_tag" binding:"max=100"`
	SteamURL   string `json:"steam_url" binding:"omitempty,url"`
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	ID         uint   `json:"id" example:"1"`
	Nickname   string `json:"nickname" example:"testuser"`
	Bio        string `json:"bio,omitempty"`
	DiscordTag string `json:"discord_tag,omitempty"`
	SteamURL   string `json:"steam_url,omitempty"`
	Reputation int    `json:"reputation"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID         uint   `json:"id" example:"1"`
	Nickname   string `json:"nickname" example:"testuser"`
	Email      string `json:"email" example:"test@example.com"`
	Bio        string `json:"bio,omitempty"`
	DiscordTag string `json:"discord_tag,omitempty"`
	SteamURL   string `json:"steam_url,omitempty"`
	Reputation int    `json:"reputation"`
}

func newPublicUserResponse(user models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:         user.ID,
		Nickname:   user.Nickname,
		Bio:        user.Bio,
		DiscordTag: user.DiscordTag,
		SteamURL:   user.SteamURL,
		Reputation: user.Reputation,
	}
}

func newPrivateUserResponse(user models.User) PrivateUserResponse {
	return PrivateUserResponse{
		ID:         user.ID,
		Nickname:   user.Nickname,
		Email:      user.Email,
		Bio:        user.Bio,
		DiscordTag: user.DiscordTag,
		SteamURL:   user.SteamURL,
		Reputation: user.Reputation,
	}
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingUser models.User
	if err := database.DB.Where("nickname = ? OR email = ?", input.Nickname, input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Nickname or email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Nickname:     input.Nickname,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with nickname/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("nickname = ? OR email = ?", input.Login, input.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// endregion

// region --- User Handlers ---

// GetMe godoc
// @Summary      Get own account
// @Description  Returns the authenticated user's account details.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} PrivateUserResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, newPrivateUserResponse(user))
}

// UpdateMe godoc
// @Summary      Update own account
// @Description  Updates the authenticated user's bio and contact links.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateMeInput true "Account Info"
// @Success      200 {object} PrivateUserResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input UpdateMeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user.Bio = input.Bio
	user.DiscordTag = input.DiscordTag
	user.SteamURL = input.SteamURL

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, newPrivateUserResponse(user))
}

// endregion
