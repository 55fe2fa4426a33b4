package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"secsentry/internal/errors"
)

// Middleware validates JWT tokens and adds the user to the request context
func (s *Service) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			user, err := s.ValidateJWT(tokenString)
			if err == nil {
				if storedUser, exists := s.GetUser(user.ID); exists {
					ctx := context.WithValue(r.Context(), userContextKey, storedUser)
					next(w, r.WithContext(ctx))
					return
				}
				log.Printf("Middleware: user ID %s not found", user.ID)
			} else {
				log.Printf("Middleware: JWT validation failed: %v", err)
			}
		}

		if user, ok := s.sessionUser(r); ok {
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next(w, r.WithContext(ctx))
			return
		}

		appErr := errors.NewAppError(errors.ErrorTypeValidation, "UNAUTHORIZED", "Authentication required", nil)
		appErr.StatusCode = http.StatusUnauthorized
		errors.SendError(w, appErr)
	}
}

// OptionalMiddleware adds the user to the context when credentials are
// present but never rejects the request
func (s *Service) OptionalMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if user, err := s.ValidateJWT(tokenString); err == nil {
				ctx := context.WithValue(r.Context(), userContextKey, user)
				next(w, r.WithContext(ctx))
				return
			}
		}

		if user, ok := s.sessionUser(r); ok {
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next(w, r.WithContext(ctx))
			return
		}

		next(w, r)
	}
}

// GetUserFromContext retrieves the user from request context
func GetUserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}
