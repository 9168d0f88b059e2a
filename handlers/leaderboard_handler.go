package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mabood2003/FairPlay/models"
	"github.com/mabood2003/FairPlay/services"
)

type LeaderboardHandler struct {
	leaderboard services.LeaderboardService
}

func NewLeaderboardHandler(leaderboard services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// Top godoc
// @Summary      Top rated players for a sport
// @Tags         leaderboard
// @Produce      json
// @Param        sport path  string true  "Sport"
// @Param        limit query int    false "Number of entries (max 100)"
// @Success      200 {array} services.LeaderboardEntry
// @Router       /leaderboard/{sport} [get]
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	sport := models.Sport(chi.URLParam(r, "sport"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	entries, err := h.leaderboard.Top(r.Context(), sport, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
