package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/mabood2003/FairPlay/geo"
	"github.com/mabood2003/FairPlay/middleware"
	"github.com/mabood2003/FairPlay/models"
	"github.com/mabood2003/FairPlay/repositories"
	"github.com/mabood2003/FairPlay/services"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type checkInInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Create godoc
// @Summary      Create a game
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        input body services.CreateGameInput true "Game details"
// @Success      201 {object} models.Game
// @Security     BearerAuth
// @Router       /games [post]
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.CreateGame(r.Context(), playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get godoc
// @Summary      Get a game by ID
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} models.Game
// @Router       /games/{id} [get]
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary      List games
// @Tags         games
// @Produce      json
// @Param        sport   query string false "Filter by sport"
// @Param        status  query string false "Filter by status"
// @Param        host_id query int    false "Filter by host"
// @Param        limit   query int    false "Page size"
// @Param        offset  query int    false "Page offset"
// @Success      200 {array} models.Game
// @Router       /games [get]
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.gameService.ListGames(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListNearby godoc
// @Summary      List games near a position
// @Tags         games
// @Produce      json
// @Param        lat    query number true  "Latitude"
// @Param        lng    query number true  "Longitude"
// @Param        radius query number false "Radius in meters"
// @Success      200 {array} models.Game
// @Router       /games/nearby [get]
func (h *GameHandler) ListNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		badRequestResponse(w, r, errors.New("lat and lng query parameters are required"))
		return
	}
	radius := 0.0
	if raw := q.Get("radius"); raw != "" {
		var err error
		if radius, err = strconv.ParseFloat(raw, 64); err != nil {
			badRequestResponse(w, r, errors.New("invalid radius query parameter"))
			return
		}
	}

	filter, err := parseListFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pos := geo.Point{Latitude: lat, Longitude: lng}
	games, err := h.gameService.ListNearbyGames(r.Context(), pos, radius, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Join godoc
// @Summary      Join an open game
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} models.Game
// @Security     BearerAuth
// @Router       /games/{id}/join [post]
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.gameService.Join)
}

// Leave godoc
// @Summary      Leave an open game
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} models.Game
// @Security     BearerAuth
// @Router       /games/{id}/leave [post]
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.gameService.Leave)
}

// CheckIn godoc
// @Summary      Check in at the game venue
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        id    path int          true "Game ID"
// @Param        input body checkInInput true "Device position"
// @Success      200 {object} models.Game
// @Security     BearerAuth
// @Router       /games/{id}/checkin [post]
func (h *GameHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input checkInInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Latitude == nil || input.Longitude == nil {
		mapServiceErrorToHTTP(w, r, services.ErrPositionUnavailable)
		return
	}

	pos := geo.Point{Latitude: *input.Latitude, Longitude: *input.Longitude}
	game, err := h.gameService.CheckIn(r.Context(), id, playerID, pos)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Start godoc
// @Summary      Start a game (host only)
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} models.Game
// @Security     BearerAuth
// @Router       /games/{id}/start [post]
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.gameService.Start)
}

// SubmitResults godoc
// @Summary      Submit final teams and scores (host only)
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        id    path int                        true "Game ID"
// @Param        input body services.SubmitResultsInput true "Teams and scores"
// @Success      200 {object} models.Game
// @Security     BearerAuth
// @Router       /games/{id}/results [post]
func (h *GameHandler) SubmitResults(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SubmitResultsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.SubmitResults(r.Context(), id, playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmResults godoc
// @Summary      Confirm the submitted result
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} models.Game
// @Security     BearerAuth
// @Router       /games/{id}/confirm [post]
func (h *GameHandler) ConfirmResults(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.gameService.ConfirmResults)
}

// Cancel godoc
// @Summary      Cancel a game (host only)
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} models.Game
// @Security     BearerAuth
// @Router       /games/{id}/cancel [post]
func (h *GameHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.gameService.Cancel)
}

// mutate handles the lifecycle operations that share the (gameID, playerID)
// shape: join, leave, start, confirm, cancel.
func (h *GameHandler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, gameID, playerID int) (*models.Game, error)) {
	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := op(r.Context(), id, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func parseListFilter(r *http.Request) (repositories.ListGamesFilter, error) {
	var filter repositories.ListGamesFilter
	q := r.URL.Query()

	if raw := q.Get("sport"); raw != "" {
		sport := models.Sport(raw)
		if !sport.Valid() {
			return filter, errors.New("invalid sport query parameter")
		}
		filter.Sport = &sport
	}
	if raw := q.Get("status"); raw != "" {
		status := models.GameStatus(raw)
		if !status.Valid() {
			return filter, errors.New("invalid status query parameter")
		}
		filter.Status = &status
	}
	if raw := q.Get("host_id"); raw != "" {
		hostID, err := strconv.Atoi(raw)
		if err != nil || hostID <= 0 {
			return filter, errors.New("invalid host_id query parameter")
		}
		filter.HostID = &hostID
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, errors.New("invalid limit query parameter")
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, errors.New("invalid offset query parameter")
		}
		filter.Offset = offset
	}
	return filter, nil
}
