package models

import "time"

// User represents a row in the PostgreSQL users table.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // bcrypt hash, never serialize
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PublicUser is the user shape embedded in login responses.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResponse is the body for a successful POST /api/auth/login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}
