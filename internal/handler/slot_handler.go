package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tigersaymon/lfg-teammate-finder/internal/auth"
)

// Membership endpoints. Each returns the updated slot representation so
// incremental-update clients can swap just the affected seat.

func parseSlotAction(c *gin.Context) (uuid.UUID, uint, bool) {
	token, ok := parseInviteToken(c)
	if !ok {
		return uuid.Nil, 0, false
	}

	slotID, err := strconv.ParseUint(c.Param("slotID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
		return uuid.Nil, 0, false
	}

	return token, uint(slotID), true
}

// JoinSlot godoc
// @Summary      Join a slot
// @Description  Claims a specific seat in a lobby. Exactly one of two concurrent requests for the same seat wins; the other gets a conflict.
// @Tags         slots
// @Produce      json
// @Security     BearerAuth
// @Param        slug   path string true "Game Slug"
// @Param        token  path string true "Invite Token"
// @Param        slotID path int    true "Slot ID"
// @Success      200 {object} SlotResponse
// @Failure      403 {object} ErrorResponse "Profile required"
// @Failure      404 {object} ErrorResponse "Lobby or slot not found"
// @Failure      409 {object} ErrorResponse "Slot taken, lobby full, already joined, or lobby not accepting players"
// @Router       /games/{slug}/lobbies/{token}/slots/{slotID}/join [post]
func JoinSlot(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	token, slotID, ok := parseSlotAction(c)
	if !ok {
		return
	}

	slot, err := lobbyService().Join(token, slotID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSlotResponse(*slot))
}

// LeaveSlot godoc
// @Summary      Leave a slot
// @Description  Vacates the caller's own seat. The host cannot leave; deleting the lobby is the host's only exit.
// @Tags         slots
// @Produce      json
// @Security     BearerAuth
// @Param        slug   path string true "Game Slug"
// @Param        token  path string true "Invite Token"
// @Param        slotID path int    true "Slot ID"
// @Success      200 {object} SlotResponse
// @Failure      403 {object} ErrorResponse "Not your slot, or host cannot leave"
// @Failure      404 {object} ErrorResponse "Lobby or slot not found"
// @Router       /games/{slug}/lobbies/{token}/slots/{slotID}/leave [post]
func LeaveSlot(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	token, slotID, ok := parseSlotAction(c)
	if !ok {
		return
	}

	slot, err := lobbyService().Leave(token, slotID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSlotResponse(*slot))
}

// KickSlot godoc
// @Summary      Kick a player from a slot (Host only)
// @Description  Clears another player's seat. Kicking an empty seat or the host's own seat is a no-op.
// @Tags         slots
// @Produce      json
// @Security     BearerAuth
// @Param        slug   path string true "Game Slug"
// @Param        token  path string true "Invite Token"
// @Param        slotID path int    true "Slot ID"
// @Success      200 {object} SlotResponse
// @Failure      403 {object} ErrorResponse "Only the host can do that"
// @Failure      404 {object} ErrorResponse "Lobby or slot not found"
// @Router       /games/{slug}/lobbies/{token}/slots/{slotID}/kick [post]
func KickSlot(c *gin.Context) {
	userID, _ := auth.CurrentUserID(c)

	token, slotID, ok := parseSlotAction(c)
	if !ok {
		return
	}

	slot, err := lobbyService().Kick(token, slotID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSlotResponse(*slot))
}
