package models

import "time"

// Role is a user's access level
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents the users table
// Only admins may change the directory
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	Role         Role      `gorm:"type:enum('admin','user');default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// Lookup implements query.Document
func (u User) Lookup(field string) (any, bool) {
	switch field {
	case "id":
		return u.ID, true
	case "username":
		return u.Username, true
	case "role":
		return string(u.Role), true
	}
	return nil, false
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;size:255;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

// TableName specifies the table name for RefreshToken model
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Lookup implements query.Document
func (r RefreshToken) Lookup(field string) (any, bool) {
	switch field {
	case "id":
		return r.ID, true
	case "user_id":
		return r.UserID, true
	case "token_hash":
		return r.TokenHash, true
	case "revoked":
		return r.Revoked, true
	}
	return nil, false
}
