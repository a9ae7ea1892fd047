package handlers

import (
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
	"github.com/amirhosseinghanipour/bearer/internal/domain"
	"github.com/amirhosseinghanipour/bearer/internal/infrastructure/http/middleware"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

// UsersHandler handles /users/* endpoints. Requires JWT auth.
type UsersHandler struct {
	userRepo ports.UserRepository
	avatars  ports.AvatarStore
	log      zerolog.Logger
}

// NewUsersHandler creates a handler for user resource endpoints. The
// avatar store may be nil; PATCH /users/avatar then returns 501.
func NewUsersHandler(userRepo ports.UserRepository, avatars ports.AvatarStore, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{userRepo: userRepo, avatars: avatars, log: log}
}

// MeResponse is the JSON shape for GET /users/me (no password hash).
type MeResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toMeResponse(u *domain.User) MeResponse {
	return MeResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Confirmed: u.Confirmed,
		Role:      string(u.Role),
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// Me returns the current user from the access token. Requires
// AuthValidator middleware.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	email := middleware.EmailFromContext(r.Context())
	if email == "" {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.userRepo.GetByEmail(r.Context(), email)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeErr(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, toMeResponse(user))
}

// Avatar replaces the current user's avatar from a multipart "file"
// field and returns the updated user.
func (h *UsersHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	email := middleware.EmailFromContext(r.Context())
	if email == "" {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.avatars == nil {
		writeErr(w, http.StatusNotImplemented, "avatar storage not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("avatars/%s%s", uuid.NewString(), path.Ext(header.Filename))
	url, err := h.avatars.Upload(r.Context(), key, file, contentType)
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("avatar upload failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	user, err := h.userRepo.UpdateAvatarURL(r.Context(), email, url)
	if err != nil {
		h.log.Error().Err(err).Msg("avatar update failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeErr(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, toMeResponse(user))
}
