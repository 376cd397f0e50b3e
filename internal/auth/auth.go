// Package auth handles login sessions and API tokens.
//
// Browser clients get an opaque session cookie backed by an in-memory
// session table. Non-browser clients (the CLI, shortcuts) can exchange
// credentials for a signed JWT and send it as a bearer token instead.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"planclan/internal/common/errors"
	"planclan/internal/storage"
)

const sessionTTL = 24 * time.Hour

type Auth struct {
	storage   storage.Storage
	jwtSecret []byte

	mu       sync.RWMutex
	sessions map[string]*Session
}

type Session struct {
	UserID    string
	Username  string
	IsDefault bool
	ExpiresAt time.Time
}

type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func New(store storage.Storage, jwtSecret string) *Auth {
	return &Auth{
		storage:   store,
		jwtSecret: []byte(jwtSecret),
		sessions:  make(map[string]*Session),
	}
}

func (a *Auth) generateSessionID() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return base64.URLEncoding.EncodeToString(bytes)
}

func (a *Auth) Login(username, password string) (string, *Session, error) {
	user, err := a.storage.ValidateUser(username, password)
	if err != nil {
		return "", nil, err
	}

	sessionID := a.generateSessionID()
	session := &Session{
		UserID:    user.ID,
		Username:  user.Username,
		IsDefault: user.IsDefault,
		ExpiresAt: time.Now().Add(sessionTTL),
	}

	a.mu.Lock()
	a.sessions[sessionID] = session
	a.mu.Unlock()

	return sessionID, session, nil
}

func (a *Auth) Logout(sessionID string) {
	a.mu.Lock()
	delete(a.sessions, sessionID)
	a.mu.Unlock()
}

func (a *Auth) ValidateSession(sessionID string) (*Session, bool) {
	a.mu.RLock()
	session, exists := a.sessions[sessionID]
	a.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(session.ExpiresAt) {
		a.mu.Lock()
		delete(a.sessions, sessionID)
		a.mu.Unlock()
		return nil, false
	}

	return session, true
}

// IssueToken signs a JWT for the given credentials.
func (a *Auth) IssueToken(username, password string) (string, error) {
	user, err := a.storage.ValidateUser(username, password)
	if err != nil {
		return "", err
	}

	claims := tokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", errors.InternalError("failed to sign token", err)
	}

	return signed, nil
}

// ValidateToken verifies a bearer token and returns the session it encodes.
func (a *Auth) ValidateToken(tokenString string) (*Session, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.AuthError("invalid token")
	}

	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &Session{
		UserID:    claims.Subject,
		Username:  claims.Username,
		ExpiresAt: expiresAt,
	}, nil
}

// RequireAuth rejects unauthenticated requests. On success it stamps the
// request with X-User-ID and X-Username for downstream handlers.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := a.sessionFromRequest(r)
		if session == nil {
			a.unauthorized(w, r)
			return
		}

		// Identity headers come from the session only; drop whatever the
		// client sent before stamping.
		r.Header.Del("X-User-ID")
		r.Header.Del("X-Username")
		r.Header.Del("X-Is-Default")

		r.Header.Set("X-User-ID", session.UserID)
		r.Header.Set("X-Username", session.Username)
		if session.IsDefault {
			r.Header.Set("X-Is-Default", "true")
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Auth) sessionFromRequest(r *http.Request) *Session {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		session, err := a.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err == nil {
			return session
		}
		return nil
	}

	cookie, err := r.Cookie("session")
	if err != nil {
		return nil
	}

	session, valid := a.ValidateSession(cookie.Value)
	if !valid {
		return nil
	}
	return session
}

func (a *Auth) unauthorized(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Authentication required"}`))
		return
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

// CleanupExpiredSessions drops expired sessions; the background scheduler
// calls this periodically.
func (a *Auth) CleanupExpiredSessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	removed := 0
	now := time.Now()
	for sessionID, session := range a.sessions {
		if now.After(session.ExpiresAt) {
			delete(a.sessions, sessionID)
			removed++
		}
	}
	return removed
}
