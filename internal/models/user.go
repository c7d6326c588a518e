package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ClientRole = "client"
	AdminRole  = "admin"
)

type User struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"-"`
	Email      string    `json:"email"`
	Roles      []string  `json:"roles"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	JoinedAt   time.Time `json:"joined_at"`
}

func (u *User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == AdminRole {
			return true
		}
	}
	return false
}

type VerificationOTP struct {
	ID        uuid.UUID
	Email     string
	Code      string
	ExpiresAt time.Time
	IsUsed    bool
	CreatedAt time.Time
}

func (o *VerificationOTP) Valid(now time.Time) bool {
	return !o.IsUsed && now.Before(o.ExpiresAt)
}

type Feedback struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
