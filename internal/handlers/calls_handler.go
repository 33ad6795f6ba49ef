package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"callwatch/internal/model"
	"callwatch/internal/stream"
)

// Sync is the slice of the synchronizer the HTTP surface needs.
type Sync interface {
	Calls() []model.Call
	ConnState() stream.ConnState
	Refresh(ctx context.Context) error
}

type CallsHandler struct {
	Sync Sync
}

type CallsResponse struct {
	ConnectionState string       `json:"connectionState"`
	Calls           []model.Call `json:"calls"`
}

// List godoc
//
// @Summary      Active calls
// @Description  Current synchronized view of active calls
// @Tags         Calls
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} CallsResponse
// @Router       /api/calls [get]
func (h *CallsHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CallsResponse{
		ConnectionState: h.Sync.ConnState().String(),
		Calls:           h.Sync.Calls(),
	})
}

// Refresh godoc
//
// @Summary      Refresh snapshot
// @Description  Re-fetch the upstream snapshot and reconcile it into state
// @Tags         Calls
// @Security     BearerAuth
// @Success      204 {string} string "refreshed"
// @Failure      502 {string} string "upstream fetch failed"
// @Router       /api/calls/refresh [post]
func (h *CallsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Sync.Refresh(r.Context()); err != nil {
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
