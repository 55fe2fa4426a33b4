package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// NewService creates a new authentication service
func NewService(jwtSecret, sessionKey string) *Service {
	return &Service{
		jwtSecret:    []byte(jwtSecret),
		sessionStore: sessions.NewCookieStore([]byte(sessionKey)),
		users:        make(map[string]*User),
	}
}

// CreateUser registers a user and returns it. Usernames are not unique keys;
// every registration gets a fresh ID.
func (s *Service) CreateUser(username, email string) *User {
	now := time.Now()
	user := &User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		CreatedAt: now,
		LastLogin: now,
	}

	s.mutex.Lock()
	s.users[user.ID] = user
	s.mutex.Unlock()

	return user
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(userID string) (*User, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	user, exists := s.users[userID]
	return user, exists
}

// GenerateJWT generates a JWT token for the user
func (s *Service) GenerateJWT(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateJWT validates a JWT token and returns the user it names
func (s *Service) ValidateJWT(tokenString string) (*User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("user_id claim not found or not a string")
	}

	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)

	return &User{
		ID:       userID,
		Username: username,
		Email:    email,
	}, nil
}

// SaveSession stores the user ID in the cookie session
func (s *Service) SaveSession(w http.ResponseWriter, r *http.Request, user *User) error {
	session, _ := s.sessionStore.Get(r, sessionName)
	session.Values["user_id"] = user.ID
	return session.Save(r, w)
}

// ClearSession removes the cookie session
func (s *Service) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.sessionStore.Get(r, sessionName)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// sessionUser resolves the user referenced by the cookie session, if any
func (s *Service) sessionUser(r *http.Request) (*User, bool) {
	session, err := s.sessionStore.Get(r, sessionName)
	if err != nil {
		return nil, false
	}
	userID, ok := session.Values["user_id"].(string)
	if !ok {
		return nil, false
	}
	return s.GetUser(userID)
}
