package handlers

import (
	"net/http"

	"github.com/mabood2003/FairPlay/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// PlayerStats godoc
// @Summary      Aggregated stats for a player
// @Tags         stats
// @Produce      json
// @Param        id path int true "Player ID"
// @Success      200 {object} models.PlayerStats
// @Router       /players/{id}/stats [get]
func (h *StatsHandler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.statsService.PlayerStats(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
