package model

import (
	"errors"
	"time"
)

// User is an account that authors posts and comments and follows other users.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// SessionUser is the authenticated identity carried through a request.
// It holds only what handlers need to authorize actions and attribute
// authorship, not the full account row.
type SessionUser struct {
	ID       int64
	Username string
}

// User constraints
const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
)

// User errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooLong  = errors.New("username too long")
	ErrPasswordTooShort = errors.New("password too short")
	ErrWrongCredentials = errors.New("wrong username or password")
)
