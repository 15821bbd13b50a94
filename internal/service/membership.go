package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tigersaymon/lfg-teammate-finder/internal/models"
)

// Membership operations are the only writers of slot occupancy after lobby
// creation. Each one runs a single transaction that locks the target slot
// row, re-reads state under the lock, validates, mutates, and commits the
// slot change together with any resulting lobby status flip. Two requests
// racing for the same seat therefore resolve to exactly one winner; the
// loser re-validates against the committed state and sees "already taken".

// lockedSlot fetches the slot identified by (invite token, slot id) under an
// exclusive row lock, along with a fresh read of its lobby. SQLite has no
// FOR UPDATE; its single-writer transactions give the same guarantee there.
func lockedSlot(tx *gorm.DB, token uuid.UUID, slotID uint) (*models.Slot, *models.Lobby, error) {
	q := tx.
		Joins("JOIN lobbies ON lobbies.id = slots.lobby_id").
		Where("slots.id = ? AND lobbies.invite_token = ? AND lobbies.deleted_at IS NULL", slotID, token)
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var slot models.Slot
	if err := q.First(&slot).Error; err != nil {
		return nil, nil, err
	}

	var lobby models.Lobby
	if err := tx.First(&lobby, slot.LobbyID).Error; err != nil {
		return nil, nil, err
	}
	return &slot, &lobby, nil
}

// refreshStatus derives the lobby status from slot occupancy inside the same
// transaction as the slot mutation. The transition is monotonic: a searching
// lobby that fills flips to in-progress exactly once, and draining never
// flips it back.
func refreshStatus(tx *gorm.DB, lobby *models.Lobby) error {
	if lobby.Status != models.StatusSearching {
		return nil
	}
	filled, err := FilledCount(tx, lobby.ID)
	if err != nil {
		return err
	}
	if filled < int64(lobby.Size) {
		return nil
	}
	return tx.Model(lobby).Update("status", models.StatusInProgress).Error
}

// Join seats a user in a specific slot. Validation order: profile, lobby
// accepting, not full, not already seated, seat empty. The occupant and join
// timestamp are written together, and the status flip (if the lobby just
// filled) commits atomically with them.
func (s *LobbyService) Join(token uuid.UUID, slotID, userID uint) (*models.Slot, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		slot, lobby, err := lockedSlot(tx, token, slotID)
		if err != nil {
			return err
		}

		if err := canJoin(tx, lobby, userID); err != nil {
			return err
		}
		if slot.PlayerID != nil {
			return ErrSlotTaken
		}

		err = tx.Model(slot).Updates(map[string]interface{}{
			"player_id": userID,
			"joined_at": time.Now(),
		}).Error
		if err != nil {
			return err
		}

		return refreshStatus(tx, lobby)
	})
	if err != nil {
		return nil, err
	}
	return s.GetSlot(slotID)
}

// Leave vacates the caller's own seat. The host is categorically blocked
// from leaving: deleting the lobby is the only way out of slot 1. Dropping
// below full never reverts an in-progress lobby to searching.
func (s *LobbyService) Leave(token uuid.UUID, slotID, userID uint) (*models.Slot, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		slot, lobby, err := lockedSlot(tx, token, slotID)
		if err != nil {
			return err
		}

		if slot.PlayerID == nil || *slot.PlayerID != userID {
			return ErrNotYourSlot
		}
		if lobby.HostID == userID {
			return ErrHostCannotLeave
		}

		return clearSlot(tx, slot)
	})
	if err != nil {
		return nil, err
	}
	return s.GetSlot(slotID)
}

// Kick lets the host clear someone else's seat. Kicking an empty seat or
// the host's own seat is a no-op, not an error. The host may kick at any
// lobby status: it is an administrative action, still useful after the
// lobby has started.
func (s *LobbyService) Kick(token uuid.UUID, slotID, requesterID uint) (*models.Slot, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		slot, lobby, err := lockedSlot(tx, token, slotID)
		if err != nil {
			return err
		}

		if lobby.HostID != requesterID {
			return ErrNotHost
		}
		if slot.PlayerID == nil || *slot.PlayerID == requesterID {
			return nil
		}

		return clearSlot(tx, slot)
	})
	if err != nil {
		return nil, err
	}
	return s.GetSlot(slotID)
}

func clearSlot(tx *gorm.DB, slot *models.Slot) error {
	return tx.Model(slot).Updates(map[string]interface{}{
		"player_id": nil,
		"joined_at": nil,
	}).Error
}

// GetSlot reloads a slot with its display associations, for the partial
// slot response returned after a membership action.
func (s *LobbyService) GetSlot(slotID uint) (*models.Slot, error) {
	var slot models.Slot
	err := s.db.
		Preload("Player").
		Preload("RequiredRole").
		First(&slot, slotID).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
