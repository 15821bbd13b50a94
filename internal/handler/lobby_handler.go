package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tigersaymon/lfg-teammate-finder/internal/auth"
	"github.com/tigersaymon/lfg-teammate-finder/internal/database"
	"github.com/tigersaymon/lfg-teammate-finder/internal/models"
	"github.com/tigersaymon/lfg-teammate-finder/internal/service"
)

func lobbyService() *service.LobbyService {
	return service.NewLobbyService(database.DB)
}

// region --- DTOs ---

type LobbyInput struct {
	Title             string `json:"title" binding:"required,max=200"`
	Description       string `json:"description" binding:"max=500"`
	Size              int    `json:"size" binding:"required,min=2,max=20"`
	IsPublic          *bool  `json:"is_public"`
	CommunicationLink string `json:"communication_link" binding:"omitempty,url"`
	HostRoleID        *uint  `json:"host_role_id"`
}

type SlotResponse struct {
	ID          uint                `json:"id"`
	Position    int                 `json:"position"`
	Role        *RoleResponse       `json:"role,omitempty"`
	RoleName    string              `json:"role_name"`
	Player      *PublicUserResponse `json:"player,omitempty"`
	JoinedAt    *time.Time          `json:"joined_at,omitempty"`
	IsAvailable bool                `json:"is_available"`
}

type LobbyResponse struct {
	InviteToken       uuid.UUID          `json:"invite_token"`
	Title             string             `json:"title"`
	Description       string             `json:"description,omitempty"`
	Size              int                `json:"size"`
	Status            models.LobbyStatus `json:"status"`
	IsPublic          bool               `json:"is_public"`
	CommunicationLink string             `json:"communication_link,omitempty"`
	FilledCount       int                `json:"filled_count"`
	IsFull            bool               `json:"is_full"`
	Game              *GameResponse      `json:"game,omitempty"`
	Host              PublicUserResponse `json:"host"`
	Slots             []SlotResponse     `json:"slots"`
	CreatedAt         time.Time          `json:"created_at"`

	// Join affordance for the authenticated viewer, present on detail
	// responses only. The reason mirrors what a join attempt would fail
	// with, so the two can never drift apart.
	CanJoin       *bool  `json:"can_join,omitempty"`
	CanJoinReason string `json:"can_join_reason,omitempty"`
}

func newSlotResponse(slot models.Slot) SlotResponse {
	resp := SlotResponse{
		ID:          slot.ID,
		Position:    slot.Position,
		RoleName:    slot.RoleName(),
		JoinedAt:    slot.JoinedAt,
		IsAvailable: slot.IsAvailable(),
	}
	if slot.RequiredRole != nil {
		role := newRoleResponse(*slot.RequiredRole)
		resp.Role = &role
	}
	if slot.Player != nil {
		player := newPublicUserResponse(*slot.Player)
		resp.Player = &player
	}
	return resp
}

func newLobbyResponse(lobby models.Lobby) LobbyResponse {
	slotResponses := make([]SlotResponse, 0, len(lobby.Slots))
	for _, slot := range lobby.Slots {
		slotResponses = append(slotResponses, newSlotResponse(slot))
	}

	resp := LobbyResponse{
		InviteToken:       lobby.InviteToken,
		Title:             lobby.Title,
		Description:       lobby.Description,
		Size:              lobby.Size,
		Status:            lobby.Status,
		IsPublic:          lobby.IsPublic,
		CommunicationLink: lobby.CommunicationLink,
		FilledCount:       lobby.FilledCount(),
		IsFull:            lobby.IsFull(),
		Host:              newPublicUserResponse(lobby.Host),
		Slots:             slotResponses,
		CreatedAt:         lobby.CreatedAt,
	}
	if lobby.Game.ID != 0 {
		game := newGameResponse(lobby.Game)
		resp.Game = &game
	}
	return resp
}

// endregion

// parseInviteToken reads the :token path param. A malformed token is
// indistinguishable from a missing lobby on purpose.
func parseInviteToken(c *gin.Context) (uuid.UUID, bool) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return uuid.Nil, false
	}
	return token, true
}

// CreateLobby godoc
// @Summary      Create a new lobby
// @Description  Creates a lobby with its full slot set; the creator becomes the host in slot 1.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path string     true "Game Slug"
// @Param        input body LobbyInput true "Lobby Info"
// @Success      201  {object}  LobbyResponse
// @Failure      400  {object}  ErrorResponse "Size out of range for this game"
// @Failure      403  {object}  ErrorResponse "Profile required"
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{slug}/lobbies [post]
func CreateLobby(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	var input LobbyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	lobby, err := lobbyService().CreateLobby(userID, game, service.CreateLobbyParams{
		Title:             input.Title,
		Description:       input.Description,
		Size:              input.Size,
		IsPublic:          isPublic,
		CommunicationLink: input.CommunicationLink,
		HostRoleID:        input.HostRoleID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newLobbyResponse(*lobby))
}

// ListLobbies godoc
// @Summary      List joinable lobbies for a game
// @Description  Lists searching lobbies, newest first. Private lobbies are visible only to their host and occupants; anonymous viewers see public lobbies only.
// @Tags         lobbies
// @Produce      json
// @Param        slug           path  string true  "Game Slug"
// @Param        available_only query bool   false "Hide full lobbies"
// @Param        page           query int    false "Page number" default(1)
// @Param        limit          query int    false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[LobbyResponse]
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{slug}/lobbies [get]
func ListLobbies(c *gin.Context) {
	game, ok := findGameBySlug(c)
	if !ok {
		return
	}

	var viewerID *uint
	if id, ok := auth.CurrentUserID(c); ok {
		viewerID = &id
	}

	availableOnly := c.Query("available_only") != ""
	page, limit := parsePagination(c)

	lobbies, total, err := lobbyService().ListJoinable(game.ID, viewerID, availableOnly, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve lobbies"})
		return
	}

	response := make([]LobbyResponse, 0, len(lobbies))
	for _, lobby := range lobbies {
		response = append(response, newLobbyResponse(lobby))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, total, page, limit))
}

// GetLobbyByToken godoc
// @Summary      Get a lobby by invite token
// @Description  Gets full lobby details, including the viewer's join affordance when authenticated.
// @Tags         lobbies
// @Produce      json
// @Param        slug  path string true "Game Slug"
// @Param        token path string true "Invite Token"
// @Success      200 {object} LobbyResponse
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /games/{slug}/lobbies/{token} [get]
func GetLobbyByToken(c *gin.Context) {
	token, ok := parseInviteToken(c)
	if !ok {
		return
	}

	svc := lobbyService()
	lobby, err := svc.GetByInviteToken(token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := newLobbyResponse(*lobby)

	if viewerID, ok := auth.CurrentUserID(c); ok {
		canJoin := true
		if err := svc.CanJoin(lobby, viewerID); err != nil {
			canJoin = false
			response.CanJoinReason = err.Error()
		}
		response.CanJoin = &canJoin
	}

	c.JSON(http.StatusOK, response)
}

// DeleteLobby godoc
// @Summary      Delete a lobby (Host only)
// @Description  Deletes a lobby and all of its slots. Deleting the lobby is the only way the host leaves it.
// @Tags         lobbies
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path string true "Game Slug"
// @Param        token path string true "Invite Token"
// @Success      200 {object} map[string]string "{"message": "Lobby deleted"}"
// @Failure      403 {object} ErrorResponse "Only the host can do that"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /games/{slug}/lobbies/{token} [delete]
func DeleteLobby(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	token, ok := parseInviteToken(c)
	if !ok {
		return
	}

	if err := lobbyService().DeleteLobby(token, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lobby deleted"})
}

// ToggleLobbyPrivacy godoc
// @Summary      Toggle lobby visibility (Host only)
// @Description  Flips the lobby between public and private.
// @Tags         lobbies
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path string true "Game Slug"
// @Param        token path string true "Invite Token"
// @Success      200 {object} LobbyResponse
// @Failure      403 {object} ErrorResponse "Only the host can do that"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /games/{slug}/lobbies/{token}/privacy [post]
func ToggleLobbyPrivacy(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	token, ok := parseInviteToken(c)
	if !ok {
		return
	}

	lobby, err := lobbyService().TogglePrivacy(token, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newLobbyResponse(*lobby))
}
