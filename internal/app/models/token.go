package models

import "time"

// RefreshToken defines a persisted refresh token based on the
// 'refresh_tokens' table. Tokens are rotated on use and revoked on logout.
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	ProfileID string    `json:"profileId" db:"profile_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
