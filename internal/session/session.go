// Package session issues and resolves login sessions. The browser holds a
// signed cookie naming a session token; the token is resolved to an
// identity through the SessionStore, so logout revokes it server-side.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"TODO_WEB-APP/internal/config"
	"TODO_WEB-APP/internal/models"
	"TODO_WEB-APP/internal/store"
)

const (
	issuer  = "todo-web-app"
	subject = "session"
)

// ErrNoSession is returned by Load when the request is anonymous.
var ErrNoSession = errors.New("session: no active session")

// Claims are the signed contents of the session cookie. The session
// token travels as the JWT ID.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager creates, loads and ends sessions
type Manager struct {
	store  store.SessionStore
	config *config.SessionConfig
	now    func() time.Time
}

// NewManager creates a Manager over the given session store
func NewManager(st store.SessionStore, cfg *config.SessionConfig) *Manager {
	return &Manager{store: st, config: cfg, now: time.Now}
}

// Start records a new session for user and sets the session cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, user *models.User) (*models.Session, error) {
	now := m.now()
	session := &models.Session{
		Token:     uuid.NewString(),
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: now,
		ExpiresAt: now.Add(m.config.TTL),
	}

	signed, err := m.sign(session)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	if err := m.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	http.SetCookie(w, m.cookie(signed))
	return session, nil
}

// Load resolves the session referenced by the request cookie. It returns
// ErrNoSession for a missing, tampered, expired or revoked session, and
// any other error only when the store fails.
func (m *Manager) Load(r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(m.config.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	token, err := m.verify(cookie.Value)
	if errors.Is(err, jwt.ErrTokenExpired) && token != "" {
		_ = m.store.DeleteSession(r.Context(), token)
	}
	if err != nil {
		return nil, ErrNoSession
	}

	session, err := m.store.FindSession(r.Context(), token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	if session.Expired(m.now()) {
		_ = m.store.DeleteSession(r.Context(), token)
		return nil, ErrNoSession
	}
	return session, nil
}

// End revokes the request's session, if any, and clears the cookie. It is
// safe to call without a session.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	defer m.Clear(w)

	cookie, err := r.Cookie(m.config.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	token, _ := m.verify(cookie.Value)
	if token == "" {
		return nil
	}
	return m.store.DeleteSession(r.Context(), token)
}

// Clear expires the session cookie in the browser
func (m *Manager) Clear(w http.ResponseWriter) {
	cookie := m.cookie("")
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

func (m *Manager) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     m.config.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) sign(session *models.Session) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.Token,
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.Secret))
}

// verify checks the cookie signature and expiry and returns the session
// token. An expired but correctly signed cookie still yields its token.
func (m *Manager) verify(value string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.config.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return claims.ID, err
	}
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.ID == "" {
		return "", jwt.ErrTokenMalformed
	}
	return claims.ID, nil
}

// CookieName returns the name of the session cookie
func (m *Manager) CookieName() string {
	return m.config.CookieName
}
