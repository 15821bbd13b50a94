package models

import (
	"time"

	"gorm.io/gorm"
)

// Slot is one ordered seat in a lobby. Positions form the contiguous range
// 1..lobby.Size; position 1 is always the host's seat. The two composite
// unique indexes are the database-level backstop for the invariants the
// membership controller enforces: one user per position, one slot per user.
type Slot struct {
	gorm.Model
	LobbyID  uint `gorm:"not null;uniqueIndex:idx_slot_position;uniqueIndex:idx_slot_player"`
	Position int  `gorm:"not null;uniqueIndex:idx_slot_position"`

	RequiredRoleID *uint
	RequiredRole   *GameRole `gorm:"foreignKey:RequiredRoleID;constraint:OnDelete:SET NULL"`

	PlayerID *uint      `gorm:"uniqueIndex:idx_slot_player"`
	Player   *User      `gorm:"foreignKey:PlayerID;constraint:OnDelete:SET NULL"`
	JoinedAt *time.Time

	Lobby Lobby `gorm:"foreignKey:LobbyID;constraint:OnDelete:CASCADE"`
}

// IsAvailable reports whether the seat is empty.
func (s *Slot) IsAvailable() bool {
	return s.PlayerID == nil
}

// RoleName is the display name of the required role, or "Any Role" for an
// untagged seat.
func (s *Slot) RoleName() string {
	if s.RequiredRole != nil {
		return s.RequiredRole.Name
	}
	return "Any Role"
}
