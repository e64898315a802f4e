package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shophouse/shophouse/internal/auth"
	"github.com/shophouse/shophouse/internal/email"
	"github.com/shophouse/shophouse/internal/model"
	"github.com/shophouse/shophouse/internal/store"
)

const maxCodeAttempts = 5

type AuthHandler struct {
	userStore      *store.UserStore
	profileStore   *store.ProfileStore
	sessionStore   *store.SessionStore
	resetCodeStore *store.ResetCodeStore
	emailClient    *email.Client
	logger         *slog.Logger
}

func NewAuthHandler(
	us *store.UserStore,
	ps *store.ProfileStore,
	ss *store.SessionStore,
	rcs *store.ResetCodeStore,
	ec *email.Client,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		userStore:      us,
		profileStore:   ps,
		sessionStore:   ss,
		resetCodeStore: rcs,
		emailClient:    ec,
		logger:         logger,
	}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type sessionResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("signup lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := h.userStore.Create(req.Email, hash)
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	if _, err := h.profileStore.Create(user.ID, req.FullName); err != nil {
		h.logger.Error("create profile", "error", err, "user_id", user.ID)
	}

	session, err := h.sessionStore.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Token:  session.Token,
		UserID: user.ID,
		Email:  user.Email,
	})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := h.userStore.GetPasswordHash(req.Email)
	if err != nil {
		h.logger.Error("signin lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := auth.CheckPassword(hash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil || user == nil {
		h.logger.Error("signin user fetch", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	session, err := h.sessionStore.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Token:  session.Token,
		UserID: user.ID,
		Email:  user.Email,
	})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.sessionStore.Delete(ac.SessionID); err != nil {
		h.logger.Error("delete session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	user, err := h.userStore.GetByID(userID)
	if err != nil {
		h.logger.Error("me lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type resetRequestBody struct {
	Email string `json:"email"`
}

// RequestReset issues a reset code for the given email. The response is
// identical whether or not the account exists, to prevent enumeration.
func (h *AuthHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	defer writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("reset lookup", "error", err)
		return
	}
	if user == nil {
		return
	}

	code, err := h.resetCodeStore.Create(req.Email)
	if err != nil {
		h.logger.Error("create reset code", "error", err)
		return
	}

	if !h.emailClient.Configured() {
		h.logger.Info("email not configured, reset code generated", "email", req.Email, "code", code.Code)
		return
	}
	if err := h.emailClient.SendResetCode(req.Email, code.Code); err != nil {
		h.logger.Error("send reset code", "error", err)
	}
}

type resetVerifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyReset checks a reset code without consuming it.
func (h *AuthHandler) VerifyReset(w http.ResponseWriter, r *http.Request) {
	var req resetVerifyBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if h.checkResetCode(w, req.Email, req.Code) == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "valid"})
}

type resetConfirmBody struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ConfirmReset consumes a valid reset code and sets the new password. All
// existing sessions for the user are revoked.
func (h *AuthHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rc := h.checkResetCode(w, req.Email, req.Code)
	if rc == nil {
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil || user == nil {
		h.logger.Error("reset confirm user fetch", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.userStore.UpdatePassword(user.ID, hash); err != nil {
		h.logger.Error("update password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update password")
		return
	}

	if err := h.resetCodeStore.MarkUsed(rc.ID); err != nil {
		h.logger.Error("mark reset code used", "error", err)
	}
	if err := h.sessionStore.DeleteForUser(user.ID); err != nil {
		h.logger.Error("revoke sessions", "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// checkResetCode validates the pending code for email, counting failed
// attempts. It writes the error response itself and returns nil on failure.
func (h *AuthHandler) checkResetCode(w http.ResponseWriter, emailAddr, code string) *model.ResetCode {
	if emailAddr == "" || code == "" {
		writeError(w, http.StatusBadRequest, "email and code are required")
		return nil
	}

	rc, err := h.resetCodeStore.GetLatestByEmail(emailAddr)
	if err != nil {
		h.logger.Error("reset code lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if rc == nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired code")
		return nil
	}
	if rc.Attempts >= maxCodeAttempts {
		writeError(w, http.StatusTooManyRequests, "too many attempts, request a new code")
		return nil
	}
	if rc.Code != code {
		attempts, err := h.resetCodeStore.IncrementAttempts(rc.ID)
		if err != nil {
			h.logger.Error("increment attempts", "error", err)
		}
		if attempts >= maxCodeAttempts {
			writeError(w, http.StatusTooManyRequests, "too many attempts, request a new code")
			return nil
		}
		writeError(w, http.StatusUnauthorized, "invalid or expired code")
		return nil
	}

	return rc
}
