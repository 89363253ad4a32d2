package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"TODO_WEB-APP/internal/config"
	"TODO_WEB-APP/internal/dto"
	"TODO_WEB-APP/internal/flash"
	"TODO_WEB-APP/internal/models"
	"TODO_WEB-APP/internal/session"
	"TODO_WEB-APP/internal/store"
)

const oauthStateCookie = "oauth_state"

// GoogleAuthHandler handles Google OAuth authentication
type GoogleAuthHandler struct {
	users        store.UserStore
	sessions     *session.Manager
	view         *View
	logger       *slog.Logger
	oauth2Config *oauth2.Config
	secureCookie bool

	// exchange and userInfo talk to Google; tests replace them
	exchange func(ctx context.Context, code string) (*oauth2.Token, error)
	userInfo func(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error)
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(users store.UserStore, sessions *session.Manager, view *View, logger *slog.Logger, cfg *config.Config) *GoogleAuthHandler {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.GoogleOAuth.ClientID,
		ClientSecret: cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  cfg.GoogleOAuth.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	h := &GoogleAuthHandler{
		users:        users,
		sessions:     sessions,
		view:         view,
		logger:       logger,
		oauth2Config: oauth2Config,
		secureCookie: cfg.Session.CookieSecure,
	}
	h.exchange = func(ctx context.Context, code string) (*oauth2.Token, error) {
		return oauth2Config.Exchange(ctx, code)
	}
	h.userInfo = h.getGoogleUserInfo
	return h
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Redirects to Google's consent page
// @Tags authentication
// @Success 302 {string} string "Redirect to Google"
// @Router /auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	// Generate state parameter for CSRF protection
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth2Config.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchanges the code, finds or creates the user and starts a session
// @Tags authentication
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State parameter for CSRF protection"
// @Success 303 {string} string "Redirect to /dashboard, or / on failure"
// @Router /auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(w, r)
	if err != nil {
		h.logger.Warn("google sign-in failed", "error", err)
		h.view.notify(w, r, flash.Danger, "Google sign-in failed", "/")
		return
	}

	if _, err := h.sessions.Start(r.Context(), w, user); err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.notify(w, r, flash.Success, "Welcome "+user.Name+"!", "/dashboard")
}

func (h *GoogleAuthHandler) authenticate(w http.ResponseWriter, r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(oauthStateCookie)
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/auth/google", MaxAge: -1})

	state := r.URL.Query().Get("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		return nil, errors.New("state mismatch")
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	token, err := h.exchange(r.Context(), code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	info, err := h.userInfo(r.Context(), token)
	if err != nil {
		return nil, fmt.Errorf("user info: %w", err)
	}
	if info.Email == "" || !info.Verified {
		return nil, errors.New("google email missing or unverified")
	}

	return h.findOrCreateUser(r.Context(), info)
}

// findOrCreateUser returns the account for the Google email, creating one
// without a password on first sign-in.
func (h *GoogleAuthHandler) findOrCreateUser(ctx context.Context, info *dto.GoogleUserInfo) (*models.User, error) {
	user, err := h.users.FindUserByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	user = &models.User{Name: name, Email: info.Email}
	if err := h.users.InsertUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return h.users.FindUserByEmail(ctx, info.Email)
		}
		return nil, err
	}
	h.logger.Info("user created from google", "email", user.Email)
	return user, nil
}

// getGoogleUserInfo fetches user information from Google
func (h *GoogleAuthHandler) getGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(h.oauth2Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &dto.GoogleUserInfo{
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Verified: verified,
	}, nil
}
