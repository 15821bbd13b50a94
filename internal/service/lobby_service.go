package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tigersaymon/lfg-teammate-finder/internal/models"
)

// HardSizeCap bounds lobby size regardless of a game's team size.
const HardSizeCap = 20

// LobbyService owns the lobby lifecycle: atomic creation of a lobby with its
// full slot ledger, visibility-aware listing, and host-only administration.
// Slot occupancy itself is only ever mutated through the membership methods
// in membership.go.
type LobbyService struct {
	db *gorm.DB
}

func NewLobbyService(db *gorm.DB) *LobbyService {
	return &LobbyService{db: db}
}

// CreateLobbyParams carries the host-supplied lobby settings.
type CreateLobbyParams struct {
	Title             string
	Description       string
	Size              int
	IsPublic          bool
	CommunicationLink string
	HostRoleID        *uint
}

// MaxLobbySize returns the upper size bound for a game: twice the nominal
// team size, capped at HardSizeCap.
func MaxLobbySize(game *models.Game) int {
	max := game.TeamSize * 2
	if max > HardSizeCap {
		max = HardSizeCap
	}
	return max
}

// HasProfile is the eligibility predicate gating lobby creation and joining.
func (s *LobbyService) HasProfile(userID, gameID uint) (bool, error) {
	return hasProfile(s.db, userID, gameID)
}

func hasProfile(tx *gorm.DB, userID, gameID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.GameProfile{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&count).Error
	return count > 0, err
}

// CreateLobby persists a lobby together with its full slot ledger as one
// atomic unit: the lobby row, Size slots at positions 1..Size, and the host
// seated in slot 1 with the join timestamp set. Readers never observe the
// lobby with a partial slot set.
func (s *LobbyService) CreateLobby(hostID uint, game *models.Game, p CreateLobbyParams) (*models.Lobby, error) {
	ok, err := s.HasProfile(hostID, game.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProfileRequired
	}

	if p.Size < 2 || p.Size > MaxLobbySize(game) {
		return nil, ErrSizeOutOfRange
	}

	if p.HostRoleID != nil {
		var role models.GameRole
		if err := s.db.First(&role, *p.HostRoleID).Error; err != nil {
			return nil, err
		}
		if role.GameID != game.ID {
			return nil, ErrInvalidRole
		}
	}

	lobby := models.Lobby{
		GameID:            game.ID,
		HostID:            hostID,
		Title:             p.Title,
		Description:       p.Description,
		Size:              p.Size,
		Status:            models.StatusSearching,
		IsPublic:          p.IsPublic,
		CommunicationLink: p.CommunicationLink,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lobby).Error; err != nil {
			return err
		}

		now := time.Now()
		slots := make([]models.Slot, 0, p.Size)
		for i := 1; i <= p.Size; i++ {
			slot := models.Slot{LobbyID: lobby.ID, Position: i}
			if i == 1 {
				slot.PlayerID = &hostID
				slot.JoinedAt = &now
				slot.RequiredRoleID = p.HostRoleID
			}
			slots = append(slots, slot)
		}
		return tx.Create(&slots).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetByInviteToken(lobby.InviteToken)
}

// ListJoinable returns searching lobbies for a game, newest first. A private
// lobby is visible only to its host and current occupants; anonymous viewers
// (viewerID == nil) see public lobbies only. availableOnly additionally
// hides lobbies whose every seat is taken.
func (s *LobbyService) ListJoinable(gameID uint, viewerID *uint, availableOnly bool, page, limit int) ([]models.Lobby, int64, error) {
	base := s.db.Model(&models.Lobby{}).
		Where("lobbies.game_id = ? AND lobbies.status = ?", gameID, models.StatusSearching)

	if viewerID == nil {
		base = base.Where("lobbies.is_public = ?", true)
	} else {
		base = base.Where(
			"lobbies.is_public = ? OR lobbies.host_id = ? OR EXISTS ("+
				"SELECT 1 FROM slots WHERE slots.lobby_id = lobbies.id"+
				" AND slots.player_id = ? AND slots.deleted_at IS NULL)",
			true, *viewerID, *viewerID,
		)
	}

	if availableOnly {
		base = base.Where(
			"(SELECT COUNT(*) FROM slots WHERE slots.lobby_id = lobbies.id" +
				" AND slots.player_id IS NOT NULL AND slots.deleted_at IS NULL) < lobbies.size",
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lobbies []models.Lobby
	err := base.
		Order("lobbies.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Host").
		Preload("Slots", slotOrder).
		Preload("Slots.Player").
		Preload("Slots.RequiredRole").
		Find(&lobbies).Error
	if err != nil {
		return nil, 0, err
	}

	return lobbies, total, nil
}

func slotOrder(db *gorm.DB) *gorm.DB {
	return db.Order("slots.position ASC")
}

// GetByInviteToken loads a lobby with its full ledger. The invite token is
// the only lookup key exposed for detail and membership endpoints.
func (s *LobbyService) GetByInviteToken(token uuid.UUID) (*models.Lobby, error) {
	var lobby models.Lobby
	err := s.db.
		Preload("Game").
		Preload("Host").
		Preload("Slots", slotOrder).
		Preload("Slots.Player").
		Preload("Slots.RequiredRole").
		Where("invite_token = ?", token).
		First(&lobby).Error
	if err != nil {
		return nil, err
	}
	return &lobby, nil
}

// DeleteLobby removes a lobby and cascades to its slots. Host only; this is
// also the only way a host ever vacates slot 1.
func (s *LobbyService) DeleteLobby(token uuid.UUID, requesterID uint) error {
	var lobby models.Lobby
	if err := s.db.Where("invite_token = ?", token).First(&lobby).Error; err != nil {
		return err
	}
	if lobby.HostID != requesterID {
		return ErrNotHost
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lobby_id = ?", lobby.ID).Delete(&models.Slot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&lobby).Error
	})
}

// TogglePrivacy flips the lobby between public and private. Host only.
func (s *LobbyService) TogglePrivacy(token uuid.UUID, requesterID uint) (*models.Lobby, error) {
	var lobby models.Lobby
	if err := s.db.Where("invite_token = ?", token).First(&lobby).Error; err != nil {
		return nil, err
	}
	if lobby.HostID != requesterID {
		return nil, ErrNotHost
	}

	if err := s.db.Model(&lobby).Update("is_public", !lobby.IsPublic).Error; err != nil {
		return nil, err
	}
	return s.GetByInviteToken(token)
}

// FilledCount counts occupied slots straight from the database, so it can be
// trusted inside a locking transaction.
func FilledCount(tx *gorm.DB, lobbyID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Slot{}).
		Where("lobby_id = ? AND player_id IS NOT NULL", lobbyID).
		Count(&count).Error
	return count, err
}

// CanJoin is the single source of truth for join eligibility, shared by the
// join transaction and by UI affordance decisions. It returns nil when the
// user may take a seat, or the sentinel error naming the first failed check.
// The check order is fixed: profile, lobby state, capacity, membership.
func (s *LobbyService) CanJoin(lobby *models.Lobby, userID uint) error {
	return canJoin(s.db, lobby, userID)
}

func canJoin(tx *gorm.DB, lobby *models.Lobby, userID uint) error {
	ok, err := hasProfile(tx, userID, lobby.GameID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProfileRequired
	}

	if lobby.Status != models.StatusSearching {
		return ErrNotSearching
	}

	filled, err := FilledCount(tx, lobby.ID)
	if err != nil {
		return err
	}
	if filled >= int64(lobby.Size) {
		return ErrLobbyFull
	}

	var occupied int64
	err = tx.Model(&models.Slot{}).
		Where("lobby_id = ? AND player_id = ?", lobby.ID, userID).
		Count(&occupied).Error
	if err != nil {
		return err
	}
	if occupied > 0 {
		return ErrAlreadyInLobby
	}

	return nil
}

// RolesForGame returns the ordered role set for a game. Pure query, used by
// the catalog surface and the lobby form.
func (s *LobbyService) RolesForGame(gameID uint) ([]models.GameRole, error) {
	var roles []models.GameRole
	err := s.db.
		Where("game_id = ?", gameID).
		Order("\"order\" ASC").
		Find(&roles).Error
	return roles, err
}
