package models

import "time"

type User struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LastName        string    `gorm:"not null"                 json:"lastname"`
	FirstName       string    `gorm:"not null"                 json:"firstname"`
	Username        string    `gorm:"unique;not null"          json:"username"`
	PasswordHash    string    `gorm:"not null"                 json:"-"`
	AdminPermission *int      `json:"admin_permission,omitempty"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`

	Tokens []Token `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Token struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
}
