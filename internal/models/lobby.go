package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LobbyStatus is the lifecycle state of a lobby.
type LobbyStatus string

const (
	// StatusSearching means the lobby is open and accepting players.
	StatusSearching LobbyStatus = "searching"
	// StatusInProgress is set automatically, exactly once, when the last
	// slot fills. It is never reverted when a player later leaves.
	StatusInProgress LobbyStatus = "in_progress"
	// StatusCompleted and StatusCancelled are terminal states reachable
	// from either of the above via host or admin action.
	StatusCompleted LobbyStatus = "completed"
	StatusCancelled LobbyStatus = "cancelled"
)

// Lobby represents a hosted, sized gathering for one game. Its slots are
// created with it in a single transaction and only ever destroyed with it.
type Lobby struct {
	gorm.Model
	GameID      uint   `gorm:"not null;index"`
	HostID      uint   `gorm:"not null;index"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"size:500"`
	Size        int    `gorm:"not null;default:5"`

	Status LobbyStatus `gorm:"size:20;not null;default:'searching';index"`

	// InviteToken is the sole external lookup key for the detail and
	// membership endpoints; the numeric ID is never exposed there.
	InviteToken uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	IsPublic          bool   `gorm:"not null;default:true"`
	CommunicationLink string `gorm:"size:512"`

	Game  Game   `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
	Host  User   `gorm:"foreignKey:HostID;constraint:OnDelete:CASCADE"`
	Slots []Slot `gorm:"foreignKey:LobbyID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns the invite token so it exists before the row does.
func (l *Lobby) BeforeCreate(tx *gorm.DB) error {
	if l.InviteToken == uuid.Nil {
		l.InviteToken = uuid.New()
	}
	return nil
}

// FilledCount counts occupied slots among the preloaded Slots association.
// Display helper only; transactional decisions count in the database.
func (l *Lobby) FilledCount() int {
	n := 0
	for _, s := range l.Slots {
		if s.PlayerID != nil {
			n++
		}
	}
	return n
}

// IsFull reports whether every preloaded slot is occupied.
func (l *Lobby) IsFull() bool {
	return l.FilledCount() >= l.Size
}
