package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tigersaymon/lfg-teammate-finder/internal/database"
	"github.com/tigersaymon/lfg-teammate-finder/internal/models"
)

type RoleInput struct {
	Name      string `json:"name" binding:"required,max=50"`
	IconClass string `json:"icon_class" binding:"max=50"`
	Order     int    `json:"order" binding:"min=1"`
}

type RoleResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	IconClass string `json:"icon_class,omitempty"`
	Order     int    `json:"order"`
}

func newRoleResponse(role models.GameRole) RoleResponse {
	return RoleResponse{
		ID:        role.ID,
		Name:      role.Name,
		IconClass: role.IconClass,
		Order:     role.Order,
	}
}

// CreateRole godoc
// @Summary      Create a role for a game
// @Description  Adds a playable role to a game's catalog entry.
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path string    true "Game Slug"
// @Param        input body RoleInput true "Role Info"
// @Success      201  {object}  RoleResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Failure      409  {object}  ErrorResponse "Role already exists"
// @Router       /admin/games/{slug}/roles [post]
func CreateRole(c *gin.Context) {
	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := input.Order
	if order == 0 {
		order = 1
	}

	role := models.GameRole{
		GameID:    game.ID,
		Name:      input.Name,
		IconClass: input.IconClass,
		Order:     order,
	}
	if err := database.DB.Create(&role).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Role already exists for this game"})
		return
	}

	c.JSON(http.StatusCreated, newRoleResponse(role))
}

// UpdateRole godoc
// @Summary      Update a role
// @Description  Updates a role's name, icon or ordering.
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug   path string    true "Game Slug"
// @Param        roleID path int       true "Role ID"
// @Param        input  body RoleInput true "New Role Info"
// @Success      200  {object}  RoleResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Role not found"
// @Router       /admin/games/{slug}/roles/{roleID} [put]
func UpdateRole(c *gin.Context) {
	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	roleID, err := strconv.ParseUint(c.Param("roleID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role ID"})
		return
	}

	var input RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var role models.GameRole
	if err := database.DB.Where("game_id = ?", game.ID).First(&role, roleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	role.Name = input.Name
	role.IconClass = input.IconClass
	if input.Order > 0 {
		role.Order = input.Order
	}

	if err := database.DB.Save(&role).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Role already exists for this game"})
		return
	}

	c.JSON(http.StatusOK, newRoleResponse(role))
}

// DeleteRole godoc
// @Summary      Delete a role
// @Description  Removes a role; slots requiring it fall back to "Any Role".
// @Tags         admin-roles
// @Produce      json
// @Security     BearerAuth
// @Param        slug   path string true "Game Slug"
// @Param        roleID path int    true "Role ID"
// @Success      200 {object} map[string]string "{"message": "Role deleted"}"
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Role not found"
// @Router       /admin/games/{slug}/roles/{roleID} [delete]
func DeleteRole(c *gin.Context) {
	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	roleID, err := strconv.ParseUint(c.Param("roleID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role ID"})
		return
	}

	result := database.DB.Where("game_id = ?", game.ID).Delete(&models.GameRole{}, roleID)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}
