package models

import "gorm.io/gorm"

// Game represents a video game supported by the platform. TeamSize is the
// nominal team size for the title and drives the allowed lobby size range.
type Game struct {
	gorm.Model
	Title    string `gorm:"size:100;unique;not null"`
	Slug     string `gorm:"size:100;uniqueIndex;not null"`
	IconURL  string `gorm:"size:512"`
	TeamSize int    `gorm:"not null;default:5"`

	Roles []GameRole `gorm:"foreignKey:GameID"`
}

// GameRole defines a playable role for a Game (e.g. "Sniper", "Healer").
// Roles are descriptive: they tag slots and profiles but are never used for
// automated balancing.
type GameRole struct {
	gorm.Model
	GameID    uint   `gorm:"not null;index;uniqueIndex:idx_game_role_name"`
	Name      string `gorm:"size:50;not null;uniqueIndex:idx_game_role_name"`
	IconClass string `gorm:"size:50"`
	Order     int    `gorm:"not null;default:1"`

	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}
