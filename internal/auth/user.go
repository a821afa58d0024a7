package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	CookieName     = "sysmonbar-auth"
	cookieLifespan = 24 * time.Hour
)

// SessionStore holds active user sessions
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]SessionData
	now      func() time.Time
}

// SessionData contains user session information
type SessionData struct {
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSessionStore returns an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]SessionData),
		now:      time.Now,
	}
}

// Global session store
var Sessions = NewSessionStore()

// GenerateToken creates a random token
func GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Create creates a new session for the user and returns a token
func (s *SessionStore) Create(username string) (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sessions[token] = SessionData{
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(cookieLifespan),
	}

	return token, nil
}

// Validate checks if a token is valid and returns the username.
// Expired sessions are removed.
func (s *SessionStore) Validate(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[token]
	if !exists {
		return "", false
	}
	if s.now().After(session.ExpiresAt) {
		delete(s.sessions, token)
		return "", false
	}
	return session.Username, true
}

// Delete removes a session (logout)
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len returns the number of stored sessions, expired ones included
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CreateSession creates a session in the global store
func CreateSession(username string) (string, error) {
	return Sessions.Create(username)
}

// ValidateSession validates a token against the global store
func ValidateSession(token string) (string, bool) {
	return Sessions.Validate(token)
}

// DeleteSession removes a session from the global store
func DeleteSession(token string) {
	Sessions.Delete(token)
}

// SetCookie sets an HTTP cookie with the session token
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(cookieLifespan),
	})
}

// GetTokenFromCookie extracts the session token from HTTP request cookies
func GetTokenFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// ClearCookie removes the session cookie
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

// GetTokenFromHeader extracts the session token from Authorization header
func GetTokenFromHeader(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	// Support both "Bearer token" and "token" formats
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// IsAuthenticated checks if the request has a valid session (cookie or
// header). Every request is authenticated when no users are configured.
func IsAuthenticated(r *http.Request) (string, bool) {
	if !Enabled() {
		return "", true
	}

	token, exists := GetTokenFromCookie(r)
	if !exists {
		token, exists = GetTokenFromHeader(r)
		if !exists {
			return "", false
		}
	}

	return ValidateSession(token)
}
