package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/deckhand/deckhand/internal/errors"
	"github.com/deckhand/deckhand/internal/ratelimit"
)

// LimitsHandlers exposes the admission limiter occupancy.
type LimitsHandlers struct {
	Limiter *ratelimit.Limiter
}

// LimitsResponse reports current window occupancy and queue depth.
type LimitsResponse struct {
	AppInUse     int `json:"app_in_use"`
	AppCapacity  int `json:"app_capacity"`
	UserInUse    int `json:"user_in_use"`
	UserCapacity int `json:"user_capacity"`
	Waiting      int `json:"waiting"`
}

// GetLimits responds with a snapshot of limiter occupancy.
func (h *LimitsHandlers) GetLimits(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Limiter == nil {
		respondWithError(w, r, apperrors.NewInternalError("limiter is not configured"))
		return
	}

	stats := h.Limiter.Stats()
	response := LimitsResponse{
		AppInUse:     stats.AppInUse,
		AppCapacity:  stats.AppCapacity,
		UserInUse:    stats.UserInUse,
		UserCapacity: stats.UserCapacity,
		Waiting:      stats.Waiting,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
