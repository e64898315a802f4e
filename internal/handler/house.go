package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shophouse/shophouse/internal/auth"
	"github.com/shophouse/shophouse/internal/model"
	"github.com/shophouse/shophouse/internal/store"
)

type HouseHandler struct {
	houseStore *store.HouseStore
	logger     *slog.Logger
}

func NewHouseHandler(hs *store.HouseStore, logger *slog.Logger) *HouseHandler {
	return &HouseHandler{houseStore: hs, logger: logger}
}

type createHouseRequest struct {
	Name string `json:"name"`
}

func (h *HouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createHouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	house, err := h.houseStore.Create(req.Name)
	if err != nil {
		h.logger.Error("create house", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create house")
		return
	}

	// The creator joins their own house immediately
	userID := auth.UserID(r.Context())
	if _, err := h.houseStore.AddMember(house.ID, userID); err != nil {
		h.logger.Error("add creator as member", "error", err, "house_id", house.ID)
		writeError(w, http.StatusInternalServerError, "failed to join house")
		return
	}

	writeJSON(w, http.StatusCreated, house)
}

type joinHouseRequest struct {
	InviteCode string `json:"invite_code"`
}

func (h *HouseHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinHouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if strings.TrimSpace(req.InviteCode) == "" {
		writeError(w, http.StatusBadRequest, "invite_code is required")
		return
	}

	house, err := h.houseStore.GetByInviteCode(req.InviteCode)
	if err != nil {
		h.logger.Error("invite code lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if house == nil {
		writeError(w, http.StatusNotFound, "invalid invite code")
		return
	}

	userID := auth.UserID(r.Context())
	if _, err := h.houseStore.AddMember(house.ID, userID); err != nil {
		h.logger.Error("add member", "error", err, "house_id", house.ID)
		writeError(w, http.StatusInternalServerError, "failed to join house")
		return
	}

	writeJSON(w, http.StatusOK, house)
}

func (h *HouseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	houses, err := h.houseStore.ListHousesForUser(userID)
	if err != nil {
		h.logger.Error("list houses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list houses")
		return
	}
	if houses == nil {
		houses = []model.House{}
	}
	writeJSON(w, http.StatusOK, houses)
}

func (h *HouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	house := h.requireMembership(w, r, r.PathValue("id"))
	if house == nil {
		return
	}
	writeJSON(w, http.StatusOK, house)
}

func (h *HouseHandler) Members(w http.ResponseWriter, r *http.Request) {
	house := h.requireMembership(w, r, r.PathValue("id"))
	if house == nil {
		return
	}

	members, err := h.houseStore.ListMembers(house.ID)
	if err != nil {
		h.logger.Error("list members", "error", err, "house_id", house.ID)
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if members == nil {
		members = []model.HouseMemberDetail{}
	}
	writeJSON(w, http.StatusOK, members)
}

// requireMembership loads the house and verifies the requesting user belongs
// to it. It writes the error response itself and returns nil on failure.
func (h *HouseHandler) requireMembership(w http.ResponseWriter, r *http.Request, houseID string) *model.House {
	if houseID == "" {
		writeError(w, http.StatusBadRequest, "house id is required")
		return nil
	}

	house, err := h.houseStore.GetByID(houseID)
	if err != nil {
		h.logger.Error("house lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if house == nil {
		writeError(w, http.StatusNotFound, "house not found")
		return nil
	}

	member, err := h.houseStore.GetMember(house.ID, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("membership lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if member == nil {
		writeError(w, http.StatusForbidden, "not a member of this house")
		return nil
	}

	return house
}
