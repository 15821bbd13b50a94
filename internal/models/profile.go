package models

import "gorm.io/gorm"

// GameProfile is a user's "player card" for one game: rank and preferred role.
// Holding a profile for a game is what makes a user eligible to create or join
// lobbies for that game.
type GameProfile struct {
	gorm.Model
	UserID uint   `gorm:"not null;uniqueIndex:idx_user_game_profile"`
	GameID uint   `gorm:"not null;uniqueIndex:idx_user_game_profile"`
	Rank   string `gorm:"size:50"`

	MainRoleID *uint
	MainRole   *GameRole `gorm:"foreignKey:MainRoleID;constraint:OnDelete:SET NULL"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}
