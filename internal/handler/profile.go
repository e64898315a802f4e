package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shophouse/shophouse/internal/auth"
	"github.com/shophouse/shophouse/internal/store"
)

type ProfileHandler struct {
	profileStore *store.ProfileStore
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	logger       *slog.Logger
}

func NewProfileHandler(ps *store.ProfileStore, us *store.UserStore, ss *store.SessionStore, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profileStore: ps, userStore: us, sessionStore: ss, logger: logger}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	profile, err := h.profileStore.GetByID(userID)
	if err != nil {
		h.logger.Error("get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	FullName      string  `json:"full_name"`
	Language      string  `json:"language"`
	Notifications bool    `json:"notifications"`
	Phone         *string `json:"phone"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	existing, err := h.profileStore.GetByID(userID)
	if err != nil {
		h.logger.Error("get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		req.FullName = existing.FullName
	}
	req.Language = strings.TrimSpace(req.Language)
	if req.Language == "" {
		req.Language = existing.Language
	}

	profile, err := h.profileStore.Update(userID, req.FullName, req.Language, req.Notifications, req.Phone)
	if err != nil {
		h.logger.Error("update profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	stats, err := h.profileStore.Stats(userID)
	if err != nil {
		h.logger.Error("profile stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DeleteAccount removes the user, their profile, and all their sessions.
// Items they added stay in their houses.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	if err := h.sessionStore.DeleteForUser(userID); err != nil {
		h.logger.Error("revoke sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}
	if err := h.userStore.Delete(userID); err != nil {
		h.logger.Error("delete user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
