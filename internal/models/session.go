package models

import (
	"time"

	"github.com/google/uuid"
)

// Session maps a bearer token to an authenticated user. The auth subsystem
// itself (registration, password flows) lives outside this service; the core
// only needs "current user or nothing".
type Session struct {
	Token     string    `gorm:"type:text;primary_key" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"type:timestamp;not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
