package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shophouse/shophouse/internal/auth"
	"github.com/shophouse/shophouse/internal/model"
	"github.com/shophouse/shophouse/internal/store"
	"github.com/shophouse/shophouse/internal/websocket"
)

type ItemHandler struct {
	itemStore  *store.ItemStore
	houseStore *store.HouseStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewItemHandler(is *store.ItemStore, hs *store.HouseStore, hub *websocket.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{itemStore: is, houseStore: hs, hub: hub, logger: logger}
}

type itemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	houseID := r.PathValue("house_id")
	if !h.requireMembership(w, r, houseID) {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	item, err := h.itemStore.Create(houseID, req.Name, req.Quantity, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("item", "insert", houseID, item.ID))
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	houseID := r.PathValue("house_id")
	if !h.requireMembership(w, r, houseID) {
		return
	}

	items, err := h.itemStore.ListByHouse(houseID)
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing := h.itemForRequest(w, r)
	if existing == nil {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = existing.Name
	}
	if req.Quantity == 0 {
		req.Quantity = existing.Quantity
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	item, err := h.itemStore.Update(existing.ID, req.Name, req.Quantity)
	if err != nil {
		h.logger.Error("update item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("item", "update", item.HouseID, item.ID))
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing := h.itemForRequest(w, r)
	if existing == nil {
		return
	}

	if err := h.itemStore.Delete(existing.ID); err != nil {
		h.logger.Error("delete item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("item", "delete", existing.HouseID, existing.ID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) ToggleBought(w http.ResponseWriter, r *http.Request) {
	existing := h.itemForRequest(w, r)
	if existing == nil {
		return
	}

	item, err := h.itemStore.ToggleBought(existing.ID, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("toggle item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("item", "update", item.HouseID, item.ID))
	writeJSON(w, http.StatusOK, item)
}

// itemForRequest loads the item named in the path and verifies the user is a
// member of its house. It writes the error response itself and returns nil
// on failure.
func (h *ItemHandler) itemForRequest(w http.ResponseWriter, r *http.Request) *model.Item {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "item id is required")
		return nil
	}

	item, err := h.itemStore.GetByID(id)
	if err != nil {
		h.logger.Error("item lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return nil
	}

	if !h.requireMembership(w, r, item.HouseID) {
		return nil
	}
	return item
}

func (h *ItemHandler) requireMembership(w http.ResponseWriter, r *http.Request, houseID string) bool {
	if houseID == "" {
		writeError(w, http.StatusBadRequest, "house id is required")
		return false
	}

	member, err := h.houseStore.GetMember(houseID, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("membership lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if member == nil {
		writeError(w, http.StatusForbidden, "not a member of this house")
		return false
	}
	return true
}
