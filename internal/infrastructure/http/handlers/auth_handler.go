package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
	"github.com/amirhosseinghanipour/bearer/internal/application/session"
	domerrors "github.com/amirhosseinghanipour/bearer/internal/domain/errors"
	"github.com/amirhosseinghanipour/bearer/internal/infrastructure/http/middleware"
)

type AuthHandler struct {
	register     *session.Register
	login        *session.Login
	refresh      *session.Refresh
	confirmEmail *session.ConfirmEmail
	requestEmail *session.RequestConfirmation
	logout       *session.Logout
	validate     *validator.Validate
	log          zerolog.Logger
}

func NewAuthHandler(register *session.Register, login *session.Login, refresh *session.Refresh, confirmEmail *session.ConfirmEmail, requestEmail *session.RequestConfirmation, logout *session.Logout, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		register:     register,
		login:        login,
		refresh:      refresh,
		confirmEmail: confirmEmail,
		requestEmail: requestEmail,
		logout:       logout,
		validate:     validator.New(),
		log:          log,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username" validate:"required,min=2,max=64"`
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,min=8,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	username := SanitizeUsername(body.Username)
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if username == "" || email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "invalid username, email or password length")
		return
	}
	result, err := h.register.Execute(r.Context(), session.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		AuditLog(h.log, r, "user.signup", email, false, err.Error())
		middleware.RecordAuthAttempt("signup", false)
		if errors.Is(err, domerrors.ErrUserExists) {
			writeErr(w, http.StatusConflict, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("register failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	AuditLog(h.log, r, "user.signup", email, true, "")
	middleware.RecordAuthAttempt("signup", true)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":         result.User.ID.String(),
		"username":   result.User.Username,
		"email":      result.User.Email,
		"created_at": result.User.CreatedAt,
		"detail":     "User successfully created. Check your email for confirmation.",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "invalid email or password length")
		return
	}
	result, err := h.login.Execute(r.Context(), session.LoginInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		AuditLog(h.log, r, "user.login", email, false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		if errors.Is(err, domerrors.ErrUserNotFound) ||
			errors.Is(err, domerrors.ErrEmailNotConfirmed) ||
			errors.Is(err, domerrors.ErrInvalidCredentials) {
			writeErr(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	AuditLog(h.log, r, "user.login", email, true, "")
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  result.Tokens.AccessToken,
		"refresh_token": result.Tokens.RefreshToken,
		"token_type":    "bearer",
	})
}

// Refresh exchanges the refresh token from the Authorization header for
// a fresh pair. A reused token revokes the session and returns 401.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		writeErr(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	result, err := h.refresh.Execute(r.Context(), session.RefreshInput{RefreshToken: token})
	if err != nil {
		AuditLog(h.log, r, "session.refresh", "", false, err.Error())
		middleware.RecordAuthAttempt("refresh", false)
		if isTokenFailure(err) || errors.Is(err, domerrors.ErrUserNotFound) || errors.Is(err, domerrors.ErrTokenReuse) {
			writeErr(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("refresh failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	AuditLog(h.log, r, "session.refresh", "", true, "")
	middleware.RecordAuthAttempt("refresh", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  result.Tokens.AccessToken,
		"refresh_token": result.Tokens.RefreshToken,
		"token_type":    "bearer",
	})
}

func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeErr(w, http.StatusBadRequest, "missing token")
		return
	}
	result, err := h.confirmEmail.Execute(r.Context(), session.ConfirmEmailInput{Token: token})
	if err != nil {
		AuditLog(h.log, r, "email.confirm", "", false, err.Error())
		middleware.RecordAuthAttempt("confirm_email", false)
		if isTokenFailure(err) || errors.Is(err, domerrors.ErrUserNotFound) {
			writeErr(w, http.StatusBadRequest, "verification error")
			return
		}
		h.log.Error().Err(err).Msg("confirm email failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	AuditLog(h.log, r, "email.confirm", "", true, "")
	middleware.RecordAuthAttempt("confirm_email", true)
	if result.AlreadyConfirmed {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Your email is already confirmed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email confirmed"})
}

func (h *AuthHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	if email == "" {
		writeErr(w, http.StatusBadRequest, "invalid email")
		return
	}
	_, err := h.requestEmail.Execute(r.Context(), session.RequestConfirmationInput{Email: email})
	if err != nil {
		h.log.Error().Err(err).Msg("request confirmation failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Check your email for confirmation."})
}

// Logout ends the session for the authenticated user. Requires
// AuthValidator middleware.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	email := middleware.EmailFromContext(r.Context())
	if email == "" {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.logout.Execute(r.Context(), session.LogoutInput{Email: email}); err != nil {
		h.log.Error().Err(err).Msg("logout failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	AuditLog(h.log, r, "session.logout", email, true, "")
	w.WriteHeader(http.StatusNoContent)
}

func isTokenFailure(err error) bool {
	return errors.Is(err, ports.ErrTokenMalformed) ||
		errors.Is(err, ports.ErrBadSignature) ||
		errors.Is(err, ports.ErrTokenExpired) ||
		errors.Is(err, ports.ErrWrongPurpose)
}
