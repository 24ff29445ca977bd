package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quillfeed/internal/model"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "access_token"

// AuthService issues the signed session tokens the middleware validates.
type AuthService struct {
	jwtSecret string
	maxAge    int // seconds
}

func NewAuthService(jwtSecret string, maxAge int) *AuthService {
	return &AuthService{
		jwtSecret: jwtSecret,
		maxAge:    maxAge,
	}
}

// IssueToken signs a session token carrying the user's id and username.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Duration(s.maxAge) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// SessionCookie wraps the token in the session cookie.
func (s *AuthService) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   s.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie expires the session cookie.
func (s *AuthService) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
