package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
)

// User represents an API user
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// Service handles authentication operations
type Service struct {
	jwtSecret    []byte
	sessionStore *sessions.CookieStore
	users        map[string]*User
	mutex        sync.RWMutex
}

// contextKey represents custom context key types to avoid collisions
type contextKey string

const (
	userContextKey contextKey = "user"

	sessionName = "secsentry-session"
)

// Claims is the JWT claims structure
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}
