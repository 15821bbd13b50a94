package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tigersaymon/lfg-teammate-finder/internal/database"
	"github.com/tigersaymon/lfg-teammate-finder/internal/models"
	"github.com/tigersaymon/lfg-teammate-finder/internal/service"
)

// region --- DTOs ---

type GameInput struct {
	Title    string `json:"title" binding:"required,max=100"`
	Slug     string `json:"slug" binding:"required,max=100"`
	IconURL  string `json:"icon_url" binding:"omitempty,url"`
	TeamSize int    `json:"team_size" binding:"required,min=1,max=20"`
}

type GameResponse struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	IconURL  string `json:"icon_url,omitempty"`
	TeamSize int    `json:"team_size"`
	// MaxLobbySize is the upper bound for lobby creation forms.
	MaxLobbySize int `json:"max_lobby_size"`
}

func newGameResponse(game models.Game) GameResponse {
	return GameResponse{
		ID:           game.ID,
		Title:        game.Title,
		Slug:         game.Slug,
		IconURL:      game.IconURL,
		TeamSize:     game.TeamSize,
		MaxLobbySize: service.MaxLobbySize(&game),
	}
}

// endregion

// findGameBySlug is the shared slug lookup for every /games/:slug route.
func findGameBySlug(c *gin.Context) (*models.Game, bool) {
	var game models.Game
	if err := database.DB.Where("slug = ?", c.Param("slug")).First(&game).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return nil, false
	}
	return &game, true
}

// region --- Public Handlers ---

// GetGames godoc
// @Summary      Get the game catalog
// @Description  Retrieves all supported games, ordered by title.
// @Tags         games
// @Produce      json
// @Success      200 {array} GameResponse
// @Router       /games [get]
func GetGames(c *gin.Context) {
	var games []models.Game
	if err := database.DB.Order("title ASC").Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve games"})
		return
	}

	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}

	c.JSON(http.StatusOK, response)
}

// GetGameBySlug godoc
// @Summary      Get a single game
// @Description  Retrieves details for a single game by its slug.
// @Tags         games
// @Produce      json
// @Param        slug path string true "Game Slug"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{slug} [get]
func GetGameBySlug(c *gin.Context) {
	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newGameResponse(*game))
}

// GetGameRoles godoc
// @Summary      Get the roles for a game
// @Description  Retrieves the ordered role options for a game, for profile and lobby forms.
// @Tags         games
// @Produce      json
// @Param        slug path string true "Game Slug"
// @Success      200 {array} RoleResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{slug}/roles [get]
func GetGameRoles(c *gin.Context) {
	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	roles, err := lobbyService().RolesForGame(game.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve roles"})
		return
	}

	response := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		response = append(response, newRoleResponse(role))
	}

	c.JSON(http.StatusOK, response)
}

// endregion

// region --- Admin Handlers ---

// CreateGame godoc
// @Summary      Create a new game
// @Description  Adds a game to the catalog.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Game already exists"
// @Router       /admin/games [post]
func CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game := models.Game{
		Title:    input.Title,
		Slug:     input.Slug,
		IconURL:  input.IconURL,
		TeamSize: input.TeamSize,
	}

	if err := database.DB.Create(&game).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Game with this title or slug already exists"})
		return
	}

	c.JSON(http.StatusCreated, newGameResponse(game))
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Updates a game's catalog entry.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string    true  "Game Slug"
// @Param        input body      GameInput true  "New Game Info"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{slug} [put]
func UpdateGame(c *gin.Context) {
	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game.Title = input.Title
	game.Slug = input.Slug
	game.IconURL = input.IconURL
	game.TeamSize = input.TeamSize

	if err := database.DB.Save(game).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Game with this title or slug already exists"})
		return
	}

	c.JSON(http.StatusOK, newGameResponse(*game))
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Removes a game from the catalog.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Game Slug"
// @Success      200 {object} map[string]string "{"message": "Game deleted"}"
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /admin/games/{slug} [delete]
func DeleteGame(c *gin.Context) {
	result := database.DB.Where("slug = ?", c.Param("slug")).Delete(&models.Game{})
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// endregion
