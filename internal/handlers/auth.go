package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"TODO_WEB-APP/internal/dto"
	"TODO_WEB-APP/internal/flash"
	"TODO_WEB-APP/internal/models"
	"TODO_WEB-APP/internal/render"
	"TODO_WEB-APP/internal/session"
	"TODO_WEB-APP/internal/store"
	"TODO_WEB-APP/internal/utils"
)

// Mailer sends the welcome email after signup
type Mailer interface {
	SendWelcome(to, name string) error
}

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	users    store.UserStore
	sessions *session.Manager
	view     *View
	mailer   Mailer
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler instance. mailer may be nil.
func NewAuthHandler(users store.UserStore, sessions *session.Manager, view *View, mailer Mailer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		view:     view,
		mailer:   mailer,
		logger:   logger,
	}
}

// Index shows the login page, or sends a logged-in user to the dashboard
// @Summary Entry page
// @Tags authentication
// @Produce html
// @Success 200 {string} string "Login page"
// @Success 303 {string} string "Redirect to /dashboard when logged in"
// @Router / [get]
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetIdentityFromContext(r.Context()); ok {
		utils.SeeOther(w, r, "/dashboard")
		return
	}
	h.view.page(w, r, render.LoginPage, dto.PageData{})
}

// SignupForm shows the signup page
// @Summary Signup page
// @Tags authentication
// @Produce html
// @Success 200 {string} string "Signup form"
// @Router /signup [get]
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.view.page(w, r, render.SignupPage, dto.PageData{})
}

// Signup handles account creation
// @Summary Register a new user
// @Description Validation order: empty fields, password mismatch, duplicate email. Every outcome redirects with a notice.
// @Tags authentication
// @Accept x-www-form-urlencoded
// @Param name formData string true "Display name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param confirm formData string true "Password confirmation"
// @Success 303 {string} string "Redirect to / on success, /signup on validation failure"
// @Failure 500 {string} string "Store failure"
// @Router /signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	form := dto.ParseSignupForm(r)

	if form.Name == "" || form.Email == "" || form.Password == "" || form.Confirm == "" {
		h.view.notify(w, r, flash.Warning, "All fields are required!", "/signup")
		return
	}

	if form.Password != form.Confirm {
		h.view.notify(w, r, flash.Danger, "Passwords do not match!", "/signup")
		return
	}

	// Check if user already exists
	_, err := h.users.FindUserByEmail(r.Context(), form.Email)
	if err == nil {
		h.view.notify(w, r, flash.Danger, "Email already exists!", "/signup")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		h.view.serverError(w, r, err)
		return
	}

	hashedPassword, err := utils.HashPassword(form.Password)
	if err != nil {
		h.view.serverError(w, r, err)
		return
	}

	user := &models.User{
		Name:         form.Name,
		Email:        form.Email,
		PasswordHash: hashedPassword,
	}
	if err := h.users.InsertUser(r.Context(), user); err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, store.ErrDuplicateEmail) {
			h.view.notify(w, r, flash.Danger, "Email already exists!", "/signup")
			return
		}
		h.view.serverError(w, r, err)
		return
	}

	h.logger.Info("user signed up", "email", user.Email)
	if h.mailer != nil {
		go func(email, name string) {
			if err := h.mailer.SendWelcome(email, name); err != nil {
				h.logger.Warn("welcome email not sent", "email", email, "error", err)
			}
		}(user.Email, user.Name)
	}

	h.view.notify(w, r, flash.Success, "Signup successful! Please login.", "/")
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with email and password. Unknown email and wrong password produce the same notice.
// @Tags authentication
// @Accept x-www-form-urlencoded
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 303 {string} string "Redirect to /dashboard on success, / otherwise"
// @Failure 500 {string} string "Store failure"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := dto.ParseLoginForm(r)

	if form.Email == "" || form.Password == "" {
		h.view.notify(w, r, flash.Warning, "Email and password required!", "/")
		return
	}

	user, err := h.users.FindUserByEmail(r.Context(), form.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.view.serverError(w, r, err)
		return
	}
	// unknown emails still pay for a bcrypt comparison
	var hash string
	if user != nil {
		hash = user.PasswordHash
	}
	if !utils.CheckPassword(hash, form.Password) || user == nil {
		h.view.notify(w, r, flash.Danger, "Invalid email or password", "/")
		return
	}

	if _, err := h.sessions.Start(r.Context(), w, user); err != nil {
		h.view.serverError(w, r, err)
		return
	}

	h.view.notify(w, r, flash.Success, "Welcome "+user.Name+"!", "/dashboard")
}

// Logout clears the session
// @Summary Logout
// @Description Revokes the session if there is one. Always succeeds.
// @Tags authentication
// @Success 303 {string} string "Redirect to /"
// @Router /logout [get]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		// the cookie is cleared regardless
		h.logger.Error("session revoke failed", "error", err)
	}
	h.view.notify(w, r, flash.Info, "Logged out successfully!", "/")
}
