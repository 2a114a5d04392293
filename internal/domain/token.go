package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// BlacklistedToken records a refresh token that may never be used again.
type BlacklistedToken struct {
	JTI           string            `json:"jti" gorm:"primaryKey;size:64"`
	AccountID     uuid.UUID         `json:"accountId" gorm:"type:uuid;index;not null"`
	ExpiresAt     time.Time         `json:"expiresAt" gorm:"not null;index"`
	BlacklistedAt time.Time         `json:"blacklistedAt" gorm:"not null"`
	Claims        datatypes.JSONMap `json:"claims"`
}
