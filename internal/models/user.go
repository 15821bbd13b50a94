package models

import "gorm.io/gorm"

// User represents a user in the system.
type User struct {
	gorm.Model
	Nickname     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`

	Bio        string `gorm:"size:500"`
	DiscordTag string `gorm:"size:100"`
	SteamURL   string `gorm:"size:512"`
	Reputation int    `gorm:"not null;default:0"`

	// Per-game eligibility records. A user may play many games but holds
	// at most one profile per game.
	GameProfiles []GameProfile `gorm:"foreignKey:UserID"`
}
